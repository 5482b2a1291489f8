package collector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/derktes/ir-scrutinizer/config"
	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/derktes/ir-scrutinizer/server/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mode2Capture = `space 16777215
carrier 38000
pulse 9000
space 4500
pulse 560
pulse 10
space 560
pulse 560
space 120000
pulse 9000
space 2250
pulse 560
timeout 125000
bogus line here
pulse 600
`

func TestReadMode2Frames(t *testing.T) {
	var frames []capturedFrame
	err := readMode2Frames(strings.NewReader(mode2Capture), DefaultMode2Threshold, func(f capturedFrame) {
		frames = append(frames, f)
	})
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []float64{9000, 4500, 570, 560, 560, 120000}, frames[0].Durations)
	assert.Equal(t, 38000.0, frames[0].Frequency)
	assert.Equal(t, []float64{9000, 2250, 560, irsignal.DummyGap}, frames[1].Durations)
	assert.Equal(t, []float64{600, irsignal.DummyGap}, frames[2].Durations)
}

func TestReadMode2Frames_Threshold(t *testing.T) {
	var frames []capturedFrame
	input := "pulse 500\nspace 30000\npulse 500\nspace 500\n"
	require.NoError(t, readMode2Frames(strings.NewReader(input), 20000, func(f capturedFrame) {
		frames = append(frames, f)
	}))
	require.Len(t, frames, 2)
	assert.Equal(t, []float64{500, 30000}, frames[0].Durations)
	assert.Equal(t, []float64{500, 500}, frames[1].Durations, "trailing space keeps the frame even")

	frames = nil
	require.NoError(t, readMode2Frames(strings.NewReader(input), 0, func(f capturedFrame) {
		frames = append(frames, f)
	}))
	require.Len(t, frames, 1, "zero threshold falls back to the default")
}

func TestTagger_JSONFrames(t *testing.T) {
	var published [][]byte
	tg := &tagger{collectorID: "arduino", publish: func(b []byte) { published = append(published, b) }}
	input := `{"collectorId":"device","frame":{"resolution":20,"data":[[450,225],[28,2000]]}}

not json
{"collectorId":"device"}
{"frame":{"durations":[9000,4500]}}
`
	require.NoError(t, tg.readJSONFrames(strings.NewReader(input)))
	require.Len(t, published, 2)

	var first struct {
		CollectorID string `json:"collectorId"`
		Frame       struct {
			Resolution int     `json:"resolution"`
			Data       [][]int `json:"data"`
		} `json:"frame"`
	}
	require.NoError(t, json.Unmarshal(published[0], &first))
	assert.Equal(t, "arduino", first.CollectorID)
	assert.Equal(t, 20, first.Frame.Resolution)
	assert.Equal(t, [][]int{{450, 225}, {28, 2000}}, first.Frame.Data)
	assert.Contains(t, string(published[1]), `"collectorId":"arduino"`)
}

func TestPublishClient(t *testing.T) {
	var received []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ir/frame", r.URL.Path)
		var f taggedFrame
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil || f.CollectorID == "" {
			http.Error(w, "bad frame", http.StatusBadRequest)
			return
		}
		received = f.Frame
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	require.NoError(t, client.publishTaggedFrameJSON([]byte(`{"collectorId":"arduino","frame":{"durations":[1,2]}}`)))
	assert.JSONEq(t, `{"durations":[1,2]}`, string(received))

	err := client.publishTaggedFrameJSON([]byte(`{"frame":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

// newTestClient points a publishClient at a test server URL.
func newTestClient(t *testing.T, rawURL string) *publishClient {
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	client, err := newPublishClient(u.Hostname(), port)
	require.NoError(t, err)
	return client
}

func TestMode2ToServer(t *testing.T) {
	s, err := server.New(config.Default())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	client := newTestClient(t, ts.URL)

	var b strings.Builder
	b.WriteString("carrier 38000\n")
	for i := 0; i < 3; i++ {
		b.WriteString("pulse 2400\nspace 600\npulse 1200\nspace 600\npulse 600\nspace 25000\n")
	}
	b.WriteString("space 200000\n")

	var errs []error
	tg := &tagger{collectorID: "lirc", publish: func(f []byte) {
		if err := client.publishTaggedFrameJSON(f); err != nil {
			errs = append(errs, err)
		}
	}}
	require.NoError(t, tg.readMode2(strings.NewReader(b.String()), DefaultMode2Threshold))
	require.Empty(t, errs)

	resp, err := http.Get(ts.URL + "/ir/frame/lirc/Unknown/-")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []struct {
		RepeatCount int    `json:"repeatCount"`
		Repeat      string `json:"repeat"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].RepeatCount)
	assert.Equal(t, "+2400 -600 +1200 -600 +600 -25000", summaries[0].Repeat)
}
