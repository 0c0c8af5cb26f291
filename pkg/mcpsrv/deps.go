package mcpsrv

import (
	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/query"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config *config.Config
	Infer  *infer.Service // cached, deduplicated inference pipeline
	Query  *query.Engine  // jq selection
}
