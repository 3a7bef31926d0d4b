package areas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"threatdash/internal/domain"
)

// DefaultAreas is used when the area file is missing or unreadable.
var DefaultAreas = []string{"OP1", "OP2", "OP3", "OP4", "OP5", "OP6", "OP7", "OP8"}

type fileDoc struct {
	ValidAreas []string `yaml:"valid_areas"`
}

// Registry is the immutable set of valid area codes.
type Registry struct {
	list []string
	set  map[string]struct{}
}

func New(codes []string) *Registry {
	r := &Registry{set: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := r.set[c]; dup {
			continue
		}
		r.set[c] = struct{}{}
		r.list = append(r.list, c)
	}
	return r
}

// Load reads the area file at path. The file may be JSON or YAML since JSON
// parses as YAML. Missing or malformed files fall back to DefaultAreas.
func Load(path string, log *logrus.Logger) *Registry {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Errorf("configuration file not found at %s", path)
		} else {
			log.Errorf("reading configuration file %s: %v", path, err)
		}
		log.Info("using default valid areas")
		return New(DefaultAreas)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		log.Errorf("error parsing configuration file: %v", err)
		log.Info("using default valid areas")
		return New(DefaultAreas)
	}
	r := New(doc.ValidAreas)
	log.Infof("loaded %d valid areas from %s", len(r.list), path)
	return r
}

// List returns the areas in configured order.
func (r *Registry) List() []string {
	out := make([]string, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Registry) Contains(area string) bool {
	_, ok := r.set[area]
	return ok
}

// Normalize uppercases area and checks membership.
func (r *Registry) Normalize(area string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(area))
	if norm == "" || !r.Contains(norm) {
		return "", domain.InvalidArgument("Invalid area. Must be one of: %s", r.describe())
	}
	return norm, nil
}

func (r *Registry) describe() string {
	if len(r.list) == 0 {
		return "(none configured)"
	}
	return fmt.Sprintf("[%s]", strings.Join(r.list, ", "))
}
