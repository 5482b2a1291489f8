package collector

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type publishClient struct {
	serverURL string
	client    *http.Client
}

func newPublishClient(serverHost string, serverPort int) (*publishClient, error) {
	serverURLString := fmt.Sprintf("http://%s:%d/ir/frame", serverHost, serverPort)
	if _, err := url.Parse(serverURLString); err != nil {
		return nil, errors.Wrapf(err, "server address %s:%d", serverHost, serverPort)
	}
	return &publishClient{serverURL: serverURLString, client: &http.Client{Timeout: 10 * time.Second}}, nil
}

// publishTaggedFrameJSON posts one frame. The server answers 201 with its
// analysis; anything else is reported as an error.
func (pc *publishClient) publishTaggedFrameJSON(taggedFrameJSON []byte) error {
	response, err := pc.client.Post(pc.serverURL, "application/json", bytes.NewReader(taggedFrameJSON))
	if err != nil {
		return errors.Wrap(err, "publish frame")
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	if response.StatusCode != http.StatusCreated {
		return errors.Errorf("server rejected frame: %s %s", response.Status, bytes.TrimSpace(body))
	}
	log.Printf("Published frame. Response %v received", response.StatusCode)
	return nil
}
