package rbac

const (
	PermDatasetsReload  = "datasets:reload"
	PermDatasetsUpload  = "datasets:upload"
	PermPredictionsView = "predictions:view"
	PermSnapshotsCreate = "snapshots:create"
	PermSnapshotsView   = "snapshots:view"
	PermExport          = "export:read"
)

// DefaultPolicy is the role table used by Require.
var DefaultPolicy = Policy{
	"analyst": {
		PermPredictionsView,
		PermSnapshotsView,
		PermExport,
	},
	"operator": {
		"datasets:*",
		"snapshots:*",
		PermPredictionsView,
	},
	"admin": {
		"*", // everything
	},
}
