package jobsignal

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/types"
)

// DefaultAITimeout bounds one AI extraction when Resolver.Timeout is zero.
const DefaultAITimeout = 30 * time.Second

// Extractor turns a free-text posting into a JobSignal, usually with an AI
// provider.
type Extractor interface {
	ExtractJobSignal(ctx context.Context, posting string) (types.JobSignal, error)
}

// Request describes the target job. Explicit lists may be combined with a
// posting; explicit entries come first.
type Request struct {
	Requirements []string
	Keywords     []string
	Posting      string
	PostingHTML  string
	SourceURL    string
}

// Resolver builds a JobSignal from a Request. HTML postings always use the
// markup heuristics; plain-text postings go to AI first when it is set.
type Resolver struct {
	Dict    *dictionary.Dictionary
	AI      Extractor
	Timeout time.Duration
	// OnAIError is called when AI extraction fails and the heuristics are
	// used instead.
	OnAIError func(error)
}

// Resolve merges the request's lists with whatever the posting yields.
func (r *Resolver) Resolve(ctx context.Context, req Request) (types.JobSignal, error) {
	var detected types.JobSignal
	switch {
	case strings.TrimSpace(req.PostingHTML) != "":
		sig, err := FromHTML(req.PostingHTML, req.SourceURL, r.Dict)
		if err != nil {
			return types.JobSignal{}, err
		}
		detected = sig
	case strings.TrimSpace(req.Posting) != "":
		detected = r.fromText(ctx, req.Posting)
	}

	return FromLists(
		slices.Concat(req.Requirements, detected.Requirements),
		slices.Concat(req.Keywords, detected.Keywords),
	), nil
}

func (r *Resolver) fromText(ctx context.Context, posting string) types.JobSignal {
	if r.AI != nil {
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = DefaultAITimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		sig, err := r.AI.ExtractJobSignal(ctx, posting)
		if err == nil {
			return sig
		}
		if r.OnAIError != nil {
			r.OnAIError(err)
		}
	}
	return FromText(posting, r.Dict)
}
