package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gcu-hr/attendance-reconciler/internal/customhttp"
	"github.com/gcu-hr/attendance-reconciler/internal/model"
)

// NewClient returns a Source backed by the HR directory service.
func NewClient(endpoint string, c customhttp.HTTPCommand) *client {
	return &client{
		URL:         endpoint,
		HTTPCommand: c,
	}
}

type client struct {
	URL         string
	HTTPCommand customhttp.HTTPCommand
}

// Employees fetches the full employee list.
func (c *client) Employees(ctx context.Context) ([]model.Employee, error) {
	contextLogger := log.WithContext(ctx)

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildEmployeesEndpoint(), nil)
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Accept", "application/json")

	resp, err := c.HTTPCommand.Do(httpRequest)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the directory API. %v", err)
		return nil, err
	}

	defer func() {
		if err = resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Warn("Error when closing directory response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		contextLogger.Infof("status returned from directory service %s ", resp.Status)
		return nil, fmt.Errorf("directory service (Employees) returned status: %s ", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		contextLogger.WithError(err).Errorf("error reading directory API resp body (%s)", body)
		return nil, err
	}

	var response []model.Employee
	if err := json.Unmarshal(body, &response); err != nil {
		contextLogger.WithError(err).Errorf("there was an error un marshalling the directory API resp. %v", err)
		return nil, err
	}
	contextLogger.Infof("Fetched %d employees from directory service", len(response))
	return response, nil
}

func (c *client) buildEmployeesEndpoint() string {
	return c.URL + "/employees"
}
