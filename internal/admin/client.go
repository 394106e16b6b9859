package admin

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"pkgadmin/internal/models"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PackagesPath is the collection endpoint of the packages API.
const PackagesPath = "/api/packages-server"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// API is the packages backend as seen by the controller.
type API interface {
	List(ctx context.Context) ([]models.Package, error)
	Create(ctx context.Context, pkg models.Package) error
	Update(ctx context.Context, id int64, pkg models.Package) error
	Delete(ctx context.Context, id int64) error
}

// HTTPClient talks to the packages API over HTTP using fiber's client agent.
// Requests are not retried. The context is checked before a request is sent
// but an in-flight request is not cancelled.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	log     *zap.Logger
}

// NewHTTPClient creates a client for the API rooted at baseURL. A zero
// timeout waits indefinitely.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     logger,
	}
}

// List fetches every package. See decodeList for how odd bodies are handled.
func (c *HTTPClient) List(ctx context.Context) ([]models.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	body, err := c.send(fiber.Get(c.baseURL+PackagesPath), fiber.MethodGet, PackagesPath)
	if err != nil {
		return nil, err
	}
	return c.decodeList(body)
}

func (c *HTTPClient) Create(ctx context.Context, pkg models.Package) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	a := fiber.Post(c.baseURL + PackagesPath).JSONEncoder(json.Marshal).JSON(pkg)
	_, err := c.send(a, fiber.MethodPost, PackagesPath)
	return err
}

func (c *HTTPClient) Update(ctx context.Context, id int64, pkg models.Package) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	path := itemPath(id)
	a := fiber.Put(c.baseURL + path).JSONEncoder(json.Marshal).JSON(pkg)
	_, err := c.send(a, fiber.MethodPut, path)
	return err
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	path := itemPath(id)
	_, err := c.send(fiber.Delete(c.baseURL+path), fiber.MethodDelete, path)
	return err
}

func itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", PackagesPath, id)
}

// send runs the request and releases the agent.
func (c *HTTPClient) send(a *fiber.Agent, method, path string) ([]byte, error) {
	if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	start := time.Now()
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		c.log.Warn("packages api request failed",
			zap.String("method", method), zap.String("path", path), zap.Errors("errors", errs))
		return nil, errors.Wrapf(errs[0], "%s %s", method, path)
	}
	c.log.Debug("packages api request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", code), zap.Duration("took", time.Since(start)))
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, errors.WithStack(&StatusError{
			Method:     method,
			Path:       path,
			StatusCode: code,
			Body:       string(body),
		})
	}
	return body, nil
}

// decodeList turns a list response into records. A body that is not JSON is
// an error. Valid JSON that is not an array yields an empty collection, and
// array elements that are null or do not decode as a package are skipped.
func (c *HTTPClient) decodeList(body []byte) ([]models.Package, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "list response is not valid JSON")
	}

	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.log.Warn("list response is not an array, treating as empty", zap.Error(err))
		return []models.Package{}, nil
	}

	pkgs := make([]models.Package, 0, len(raw))
	for i, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			continue
		}
		var pkg models.Package
		if err := json.Unmarshal(item, &pkg); err != nil {
			c.log.Warn("skipping undecodable package", zap.Int("index", i), zap.Error(err))
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}
