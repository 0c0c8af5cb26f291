package tools

import (
	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/query"
	"github.com/alperekinci99/typefetch-cli/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Infer  *infer.Service
	Query  *query.Engine
	Fetch  *client.Client
}

// NewDeps builds the tool dependencies for a configuration.
func NewDeps(cfg *config.Config) (*Deps, error) {
	svc, err := infer.NewService(cfg)
	if err != nil {
		return nil, err
	}
	fetch := client.New(
		client.WithTimeout(svc.Config().FetchTimeout),
		client.WithMaxBodyBytes(int64(svc.Config().MaxSampleBytes)),
	)
	return &Deps{
		Config: svc.Config(),
		Infer:  svc,
		Query:  query.NewEngine(),
		Fetch:  fetch,
	}, nil
}

// Samples converts tool input documents into inference samples. Labels are
// optional and matched by position.
func (d *Deps) Samples(docs, labels []string) ([]infer.Sample, error) {
	if len(docs) == 0 {
		return nil, ErrEmptySampleSet("samples must contain at least one JSON document")
	}
	if len(labels) > len(docs) {
		return nil, ErrInvalidInput("labels must not outnumber samples")
	}
	out := make([]infer.Sample, len(docs))
	for i, doc := range docs {
		out[i] = infer.Sample{Data: []byte(doc)}
		if i < len(labels) {
			out[i].Label = labels[i]
		}
	}
	return out, nil
}
