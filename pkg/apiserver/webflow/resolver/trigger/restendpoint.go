/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// RESTEndpointTrigger asks an external endpoint which provider a request
// must satisfy. The endpoint receives the principal and service and answers
// 200 with the provider id in the body; any other status is a no-opinion.
type RESTEndpointTrigger struct {
	directory *mfa.Directory
	url       string
	client    *http.Client
}

func NewRESTEndpointTrigger(directory *mfa.Directory, url string, client *http.Client) *RESTEndpointTrigger {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTEndpointTrigger{directory: directory, url: url, client: client}
}

func (t *RESTEndpointTrigger) Name() string {
	return "rest-endpoint"
}

type restEndpointRequest struct {
	PrincipalID string              `json:"principalId"`
	ServiceID   string              `json:"serviceId,omitempty"`
	Attributes  map[string][]string `json:"attributes,omitempty"`
}

func (t *RESTEndpointTrigger) Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if t.url == "" || wc.Authentication == nil || wc.Authentication.Principal == nil {
		return nil, nil
	}

	payload := restEndpointRequest{
		PrincipalID: wc.Authentication.Principal.ID,
		Attributes:  wc.Authentication.Principal.Attributes,
	}
	if wc.Service != nil {
		payload.ServiceID = wc.Service.ID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		klog.Errorf("mfa endpoint %s is unreachable: %v", t.url, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		klog.V(4).Infof("mfa endpoint %s answered %d, no provider required", t.url, resp.StatusCode)
		return nil, nil
	}

	answer, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return nil, nil
	}
	providerID := strings.TrimSpace(string(answer))
	if providerID == "" {
		return nil, nil
	}
	return emitByID(wc, t.directory, providerID)
}
