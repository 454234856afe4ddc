package vector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/pkg/utils"
)

// Domain names a family of indices.
type Domain string

const (
	DomainWordsForeign     Domain = "words-foreign"
	DomainWordsNative      Domain = "words-native"
	DomainSentencesForeign Domain = "sentences-foreign"
	DomainSentencesNative  Domain = "sentences-native"
	DomainKanji            Domain = "kanji"
	DomainNamesForeign     Domain = "names-foreign"
	DomainNamesNative      Domain = "names-native"
)

// Domains lists every domain in load order.
var Domains = []Domain{
	DomainWordsForeign, DomainWordsNative,
	DomainSentencesForeign, DomainSentencesNative,
	DomainKanji,
	DomainNamesForeign, DomainNamesNative,
}

const (
	fileExt     = ".idx"
	anyLanguage = "any"
)

// Key identifies an index. An empty Language is a language-agnostic index.
type Key struct {
	Domain   Domain
	Language models.Language
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Domain, k.Language)
}

// Path returns the artifact path of key below dir.
func Path(dir string, key Key) string {
	name := anyLanguage
	if key.Language != "" {
		name = string(key.Language)
	}
	return filepath.Join(dir, string(key.Domain), name+fileExt)
}

// Registry is an immutable set of indices.
type Registry struct {
	indices map[Key]*Index
}

// NewRegistry copies indices into a new registry.
func NewRegistry(indices map[Key]*Index) *Registry {
	m := make(map[Key]*Index, len(indices))
	for k, v := range indices {
		m[k] = v
	}
	return &Registry{indices: m}
}

// Get returns the index for domain and lang.
func (r *Registry) Get(domain Domain, lang models.Language) (*Index, bool) {
	idx, ok := r.indices[Key{Domain: domain, Language: lang}]
	return idx, ok
}

// Keys returns the registered keys sorted by domain then language.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.indices))
	for k := range r.indices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Domain != keys[j].Domain {
			return keys[i].Domain < keys[j].Domain
		}
		return keys[i].Language < keys[j].Language
	})
	return keys
}

// Len returns the number of indices.
func (r *Registry) Len() int {
	return len(r.indices)
}

// LoadRegistry loads every "<dir>/<domain>/<lang>.idx" artifact. Files whose
// name is neither "any" nor a known language are skipped. A missing domain
// directory is not an error.
func LoadRegistry(dir string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	indices := make(map[Key]*Index)
	for _, domain := range Domains {
		entries, err := os.ReadDir(filepath.Join(dir, string(domain)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s indices: %w", domain, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
				continue
			}
			stem := strings.TrimSuffix(e.Name(), fileExt)
			key := Key{Domain: domain}
			if stem != anyLanguage {
				lang, ok := models.ParseLanguage(stem)
				if !ok {
					logger.Warn("skipping index with unknown language", zap.String("file", e.Name()))
					continue
				}
				key.Language = lang
			}
			idx, err := Load(filepath.Join(dir, string(domain), e.Name()))
			if err != nil {
				return nil, err
			}
			indices[key] = idx
			logger.Debug("index loaded",
				zap.Stringer("key", key),
				zap.Int("documents", idx.Size()),
				zap.Int("terms", len(idx.Vocabulary())),
			)
		}
	}
	return NewRegistry(indices), nil
}

var published utils.OnceValue[Registry]

// Publish makes r the process-wide registry. It fails if one was already published.
func Publish(r *Registry) error {
	if err := published.Set(r); err != nil {
		return fmt.Errorf("publish index registry: %w", err)
	}
	return nil
}

// Published returns the process-wide registry.
func Published() (*Registry, bool) {
	return published.Get()
}
