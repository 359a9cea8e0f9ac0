package auth

// Known OAuth scopes used by the asset administration backend.
const (
	// ScopeAssetsView gates every read of asset data, including the
	// activity feed.
	ScopeAssetsView = "assets:view"
)
