package datasets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"threatdash/internal/domain"
)

// Loader reads product datasets from files or http(s) URLs on every call.
// Nothing is cached.
type Loader struct {
	sources map[domain.DatasetName]string
	client  *retryablehttp.Client
	log     *logrus.Logger
}

type Options struct {
	Timeout  time.Duration
	RetryMax int
}

func New(sources map[domain.DatasetName]string, opts Options, log *logrus.Logger) *Loader {
	c := retryablehttp.NewClient()
	c.RetryMax = opts.RetryMax
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	if opts.Timeout > 0 {
		c.HTTPClient.Timeout = opts.Timeout
	}
	c.Logger = leveled{log}
	return &Loader{sources: sources, client: c, log: log}
}

// Load never fails for data problems: a missing, unreachable or malformed
// source is logged and replaced by an empty dataset.
func (l *Loader) Load(ctx context.Context, name domain.DatasetName) (domain.Dataset, error) {
	src, ok := l.sources[name]
	if !ok || strings.TrimSpace(src) == "" {
		l.log.WithField("dataset", name).Warn("no source configured, using empty dataset")
		return domain.Dataset{}, nil
	}
	raw, err := l.read(ctx, src)
	if err == nil {
		var ds domain.Dataset
		if ds, err = Parse(raw); err == nil {
			l.log.WithFields(logrus.Fields{"dataset": name, "products": len(ds.Products)}).Debug("dataset loaded")
			return ds, nil
		}
	}
	if ctx.Err() != nil {
		return domain.Dataset{}, ctx.Err()
	}
	l.log.WithFields(logrus.Fields{"dataset": name, "source": src}).Warnf("using empty dataset: %v", err)
	return domain.Dataset{}, nil
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetch(ctx, src)
	}
	path, err := homedir.Expand(src)
	if err != nil {
		return nil, fmt.Errorf("%w: expand %s: %v", domain.ErrDataUnavailable, src, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return raw, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrDataUnavailable, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return raw, nil
}

// Parse decodes a product document:
//
//	{"Products": [{"Area": "", "Productname": "", "Platforms": [{"platform": "", "Threats": [""]}]}]}
//
// Unknown fields are ignored. Products or platforms with the wrong shape are
// skipped; a document that is not JSON or lacks the Products array is an error.
func Parse(raw []byte) (domain.Dataset, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Dataset{}, fmt.Errorf("%w: invalid JSON", domain.ErrDataUnavailable)
	}
	products := gjson.GetBytes(raw, "Products")
	if !products.IsArray() {
		return domain.Dataset{}, fmt.Errorf("%w: missing Products array", domain.ErrDataUnavailable)
	}
	ds := domain.Dataset{Products: []domain.Product{}}
	products.ForEach(func(_, p gjson.Result) bool {
		if !p.IsObject() {
			return true
		}
		prod := domain.Product{
			Area:        p.Get("Area").String(),
			ProductName: p.Get("Productname").String(),
		}
		for _, pl := range p.Get("Platforms").Array() {
			if !pl.IsObject() {
				continue
			}
			platform := domain.Platform{Name: pl.Get("platform").String()}
			for _, t := range pl.Get("Threats").Array() {
				if t.Type == gjson.String {
					platform.Threats = append(platform.Threats, t.Str)
				}
			}
			prod.Platforms = append(prod.Platforms, platform)
		}
		ds.Products = append(ds.Products, prod)
		return true
	})
	return ds, nil
}

// leveled routes retryablehttp's logging through logrus.
type leveled struct{ log *logrus.Logger }

func (l leveled) Error(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Error(msg) }
func (l leveled) Info(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Debug(msg) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Debug(msg) }
func (l leveled) Warn(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Warn(msg) }

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
