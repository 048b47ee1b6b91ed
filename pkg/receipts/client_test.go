package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"testing"

	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	body   any
	debug  bool
}

// fakeTransport answers every call with respond, or with a 200 "{}" when
// respond is nil.
type fakeTransport struct {
	calls   []call
	respond func(c call) (*webclient.Response, error)
}

func (f *fakeTransport) do(c call) (*webclient.Response, error) {
	f.calls = append(f.calls, c)
	if f.respond == nil {
		return &webclient.Response{StatusCode: http.StatusOK, Method: c.method, URL: c.path, Body: []byte(`{}`)}, nil
	}
	return f.respond(c)
}

func (f *fakeTransport) GET(_ context.Context, path string, debug bool) (*webclient.Response, error) {
	return f.do(call{method: http.MethodGet, path: path, debug: debug})
}

func (f *fakeTransport) POST(_ context.Context, path string, body any, debug bool) (*webclient.Response, error) {
	return f.do(call{method: http.MethodPost, path: path, body: body, debug: debug})
}

func (f *fakeTransport) paths() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.method+" "+c.path)
	}
	return out
}

// issuesIDs returns id-N for the Nth successful submission and echoes status
// for everything else.
func issuesIDs(status int) func(c call) (*webclient.Response, error) {
	n := 0
	return func(c call) (*webclient.Response, error) {
		if c.method == http.MethodPost && status == http.StatusOK {
			n++
			body, _ := json.Marshal(map[string]string{"id": fmt.Sprintf("id-%d", n)})
			return &webclient.Response{StatusCode: status, Method: c.method, URL: c.path, Body: body}, nil
		}
		return &webclient.Response{StatusCode: status, Method: c.method, URL: c.path, Body: []byte(`{"error":"x"}`)}, nil
	}
}

type fakeRecorder struct {
	seen []*webclient.Response
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, resp *webclient.Response) error {
	f.seen = append(f.seen, resp)
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(ft *fakeTransport, out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return New(ft, Options{
		Logger: quietLogger(),
		Out:    out,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func TestSubmitAndRemember_SuccessAppendsInOrder(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	c := newTestClient(ft, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := c.SubmitAndRemember(ctx, receipt1(), CallOptions{})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, c.IDs())

	for _, cl := range ft.calls {
		assert.Equal(t, http.MethodPost, cl.method)
		assert.Equal(t, "/receipts/process", cl.path)
	}
}

func TestSubmitAndRemember_FailureLeavesPoolUnchanged(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError, http.StatusCreated} {
		ft := &fakeTransport{respond: issuesIDs(status)}
		c := newTestClient(ft, nil)

		resp, err := c.SubmitAndRemember(context.Background(), bad1(), CallOptions{})
		require.NoErrorf(t, err, "status %d is data, not an error", status)
		assert.Equal(t, status, resp.StatusCode)
		assert.Empty(t, c.IDs())
	}
}

func TestSubmitAndRemember_SuccessWithoutID(t *testing.T) {
	for _, body := range []string{`{}`, `not json`, `{"id": 12}`} {
		ft := &fakeTransport{respond: func(c call) (*webclient.Response, error) {
			return &webclient.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
		}}
		c := newTestClient(ft, nil)

		_, err := c.SubmitAndRemember(context.Background(), receipt1(), CallOptions{})
		require.NoError(t, err)
		assert.Emptyf(t, c.IDs(), "body %s", body)
	}
}

func TestSubmitAndRemember_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	ft := &fakeTransport{respond: func(call) (*webclient.Response, error) { return nil, boom }}
	c := newTestClient(ft, nil)

	resp, err := c.SubmitAndRemember(context.Background(), receipt1(), CallOptions{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, resp)
	assert.Empty(t, c.IDs())
}

func TestSubmitAndRemember_PassesDebugThrough(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(ft, nil)

	_, err := c.SubmitAndRemember(context.Background(), receipt1(), CallOptions{Debug: true})
	require.NoError(t, err)

	require.Len(t, ft.calls, 1)
	assert.True(t, ft.calls[0].debug)
}

func TestSubmitAndRemember_VerbosePrints(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	var out bytes.Buffer
	c := newTestClient(ft, &out)

	_, err := c.SubmitAndRemember(context.Background(), receipt1(), CallOptions{Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(200) POST /receipts/process")
	assert.Contains(t, out.String(), `"id": "id-1"`)
}

func TestSubmitAndRemember_QuietPrintsNothing(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	var out bytes.Buffer
	c := newTestClient(ft, &out)

	_, err := c.SubmitAndRemember(context.Background(), receipt1(), CallOptions{})
	require.NoError(t, err)

	assert.Empty(t, out.String())
}

func TestPoints_EmptyPoolSendsAbsentID(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusNotFound)}
	var out bytes.Buffer
	c := newTestClient(ft, &out)

	resp, err := c.Points(context.Background(), "", CallOptions{Verbose: true})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"GET /receipts//points"}, ft.paths())
	assert.NotContains(t, out.String(), "Selected")
}

func TestBreakdown_EmptyPoolSendsAbsentID(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusNotFound)}
	c := newTestClient(ft, nil)

	_, err := c.Breakdown(context.Background(), "", CallOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /receipts//breakdown"}, ft.paths())
}

func TestPoints_ExplicitIDWins(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	c := newTestClient(ft, nil)
	ctx := context.Background()

	_, err := c.SubmitReceipt1(ctx, CallOptions{})
	require.NoError(t, err)

	_, err = c.Points(ctx, "abc-123", CallOptions{})
	require.NoError(t, err)
	_, err = c.Breakdown(ctx, "abc-123", CallOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /receipts/process",
		"GET /receipts/abc-123/points",
		"GET /receipts/abc-123/breakdown",
	}, ft.paths())
}

func TestPoints_RandomPickComesFromPool(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	var out bytes.Buffer
	c := newTestClient(ft, &out)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.SubmitReceipt1(ctx, CallOptions{})
		require.NoError(t, err)
	}

	pool := map[string]bool{"id-1": true, "id-2": true, "id-3": true}
	for i := 0; i < 20; i++ {
		_, err := c.Points(ctx, "", CallOptions{Verbose: true})
		require.NoError(t, err)

		last := ft.calls[len(ft.calls)-1].path
		id := strings.TrimSuffix(strings.TrimPrefix(last, "/receipts/"), "/points")
		assert.Truef(t, pool[id], "picked %q outside the pool", id)
	}

	assert.Contains(t, out.String(), `Selected id="id-`)
}

func TestPoints_RandomPickUsesInjectedSource(t *testing.T) {
	run := func() []string {
		ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
		c := newTestClient(ft, nil)
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			_, _ = c.SubmitReceipt2(ctx, CallOptions{})
		}
		for i := 0; i < 5; i++ {
			_, _ = c.Breakdown(ctx, "", CallOptions{})
		}
		return ft.paths()
	}

	assert.Equal(t, run(), run(), "same seed, same picks")
}

func TestAllPointsAndBreakdowns_OrderAndCount(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	c := newTestClient(ft, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.SubmitReceipt3(ctx, CallOptions{})
		require.NoError(t, err)
	}
	ft.calls = nil

	responses, err := c.AllPointsAndBreakdowns(ctx, CallOptions{})
	require.NoError(t, err)

	require.Len(t, responses, 6)
	assert.Equal(t, []string{
		"GET /receipts/id-1/points",
		"GET /receipts/id-1/breakdown",
		"GET /receipts/id-2/points",
		"GET /receipts/id-2/breakdown",
		"GET /receipts/id-3/points",
		"GET /receipts/id-3/breakdown",
	}, ft.paths())

	for i, resp := range responses {
		assert.Equal(t, ft.calls[i].path, resp.URL)
	}
}

func TestAllPointsAndBreakdowns_EmptyPool(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(ft, nil)

	responses, err := c.AllPointsAndBreakdowns(context.Background(), CallOptions{})
	require.NoError(t, err)

	assert.Empty(t, responses)
	assert.Empty(t, ft.calls)
}

func TestAllPointsAndBreakdowns_StopsOnTransportError(t *testing.T) {
	boom := errors.New("timeout")
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	c := newTestClient(ft, nil)
	ctx := context.Background()

	_, _ = c.SubmitReceipt1(ctx, CallOptions{})
	_, _ = c.SubmitReceipt2(ctx, CallOptions{})

	ft.respond = func(cl call) (*webclient.Response, error) {
		if strings.HasSuffix(cl.path, "/breakdown") {
			return nil, boom
		}
		return &webclient.Response{StatusCode: http.StatusOK, URL: cl.path}, nil
	}

	responses, err := c.AllPointsAndBreakdowns(ctx, CallOptions{})
	require.ErrorIs(t, err, boom)
	assert.Len(t, responses, 1)
}

func TestRecorder_SeesEveryResponse(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	rec := &fakeRecorder{}
	c := New(ft, Options{Logger: quietLogger(), Out: io.Discard, Recorder: rec})
	ctx := context.Background()

	_, _ = c.SubmitReceipt1(ctx, CallOptions{})
	_, _ = c.Points(ctx, "", CallOptions{})
	_, _ = c.FetchMalformed2(ctx, CallOptions{})

	assert.Len(t, rec.seen, 3)
}

func TestRecorder_FailureDoesNotChangeOutcome(t *testing.T) {
	ft := &fakeTransport{respond: issuesIDs(http.StatusOK)}
	rec := &fakeRecorder{err: errors.New("redis down")}
	c := New(ft, Options{Logger: quietLogger(), Out: io.Discard, Recorder: rec})

	resp, err := c.SubmitReceipt1(context.Background(), CallOptions{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"id-1"}, c.IDs())
}
