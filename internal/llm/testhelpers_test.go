package llm

import (
	"context"

	"github.com/ppiankov/redline/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}

// sampleReport has one resolved issue at (0in, 0in) and one unresolved at (5in, 2in)
func sampleReport() model.Report {
	resolvedIssue := model.Issue{
		Location: model.NewLocation(0, "Missing dimension D"),
		Kind:     model.IssueKindMissingDimension,
		Keyword:  "D",
		Severity: model.SeverityHigh,
	}
	resolution := model.Resolution{
		Location:  model.NewLocation(1, "D = 150mm ✓ done"),
		Kind:      model.ResolutionKindCheckmark,
		Indicator: "✓",
	}
	pending := model.Issue{
		Location: model.NewLocation(25, "check slab edge"),
		Kind:     model.IssueKindComment,
		Keyword:  "check",
		Severity: model.SeverityMedium,
	}

	return model.Report{
		Before: model.DocumentSummary{Name: "before.pdf"},
		After:  model.DocumentSummary{Name: "after.pdf"},
		Outcome: &model.Outcome{
			Resolved:       []model.ResolvedItem{{Issue: resolvedIssue, Resolution: resolution, MatchedBy: model.MatchByPosition}},
			Unresolved:     []model.UnresolvedItem{{Issue: pending}},
			NewIssues:      []model.NewIssueItem{},
			TotalIssues:    2,
			ResolutionRate: 50,
			Verdict:        model.VerdictPartial,
			Message:        "1/2 comment(s) resolved. 1 still pending.",
		},
	}
}
