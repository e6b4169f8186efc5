package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora-backend/internal/platform/logger"
)

type scriptedCompleter struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func TestCompleteJSONCleanReplySingleCall(t *testing.T) {
	fake := &scriptedCompleter{replies: []string{`  {"avant": {}} ` + "\n"}}
	r := NewRepairer(fake, testLogger(t))

	value, err := r.CompleteJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"avant": map[string]any{}}, value)
	assert.Equal(t, 1, fake.calls)
}

func TestCompleteJSONAnyJSONValueIsSuccess(t *testing.T) {
	// No semantic validation at this layer: null and numbers pass through.
	for _, reply := range []string{"null", "42", `"text"`, "[1,2]"} {
		fake := &scriptedCompleter{replies: []string{reply}}
		r := NewRepairer(fake, testLogger(t))
		_, err := r.CompleteJSON(context.Background(), "p")
		require.NoError(t, err, reply)
		assert.Equal(t, 1, fake.calls)
	}
}

func TestCompleteJSONRepairsProseWrappedReply(t *testing.T) {
	first := "Voici le plan demandé :\n```json\n{\"avant\": {}}\n```"
	fake := &scriptedCompleter{replies: []string{first, `{"avant": {}}`}}
	r := NewRepairer(fake, testLogger(t))

	value, err := r.CompleteJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"avant": map[string]any{}}, value)
	assert.Equal(t, 2, fake.calls)

	// The repair prompt carries the first reply verbatim.
	require.Len(t, fake.prompts, 2)
	assert.Contains(t, fake.prompts[1], first)
	assert.Contains(t, fake.prompts[1], "valid JSON")
}

func TestCompleteJSONFailsAfterSingleRepairAttempt(t *testing.T) {
	fake := &scriptedCompleter{replies: []string{"not json", "still not json"}}
	r := NewRepairer(fake, testLogger(t))

	_, err := r.CompleteJSON(context.Background(), "prompt")
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "still not json", malformed.Raw)
	// Exactly two calls, never three.
	assert.Equal(t, 2, fake.calls)
}

func TestCompleteJSONPropagatesClientErrors(t *testing.T) {
	upstream := &UpstreamError{StatusCode: 500, Message: "boom"}
	fake := &scriptedCompleter{err: upstream}
	r := NewRepairer(fake, testLogger(t))

	_, err := r.CompleteJSON(context.Background(), "prompt")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 500, ue.StatusCode)
	assert.Equal(t, 1, fake.calls)
}
