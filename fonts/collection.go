package fonts

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/gogpu/paratext/internal/cache"
	"github.com/gogpu/paratext/internal/logging"
)

// familyKey identifies a resolved family list.
type familyKey struct {
	families string
	locale   string
}

// charKey identifies a fallback lookup.
type charKey struct {
	r      rune
	locale string
	style  uint32
}

// Collection owns the registered font instances and answers family and
// per-character fallback queries.
//
// Resolved family lists and fallback matches are cached. Registering a
// font or discovering a new fallback family bumps the cache generation, so
// stale results are never served.
//
// Collection is safe for concurrent use.
type Collection struct {
	mu            sync.Mutex
	instances     []*Instance
	families      map[string][]*Instance // keyed by lower-case family name
	order         []string               // lower-case family names in registration order
	defaultFamily string
	fallback      bool

	// localeFallbacks records families that served character fallback for
	// a locale. They are appended to resolved family lists for that locale.
	localeFallbacks map[string]map[string]struct{}

	familyCache *cache.Cache[familyKey, []string]
	charCache   *cache.Cache[charKey, *Instance]

	logger *slog.Logger
}

// NewCollection creates an empty collection. A nil logger disables logging.
func NewCollection(logger *slog.Logger) *Collection {
	return &Collection{
		families:        make(map[string][]*Instance),
		fallback:        true,
		localeFallbacks: make(map[string]map[string]struct{}),
		familyCache:     cache.New[familyKey, []string](256),
		charCache:       cache.New[charKey, *Instance](4096),
		logger:          logging.OrNop(logger),
	}
}

// Load parses font data and registers it.
func (c *Collection) Load(data []byte) (*Instance, error) {
	inst, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Add(inst)
	return inst, nil
}

// Add registers inst and assigns its id. The first registered family
// becomes the default family.
func (c *Collection) Add(inst *Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.instances = append(c.instances, inst)
	inst.id = uint32(len(c.instances)) //nolint:gosec // bounded by registrations

	key := strings.ToLower(inst.family)
	if _, ok := c.families[key]; !ok {
		c.order = append(c.order, key)
	}
	c.families[key] = append(c.families[key], inst)
	if c.defaultFamily == "" {
		c.defaultFamily = key
	}

	c.familyCache.Invalidate()
	c.charCache.Invalidate()
	c.logger.Debug("font registered",
		slog.String("family", inst.family),
		slog.Uint64("id", uint64(inst.id)),
		slog.String("style", inst.style.String()))
}

// Instance returns the instance with the given id, or nil.
func (c *Collection) Instance(id uint32) *Instance {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == 0 || int(id) > len(c.instances) {
		return nil
	}
	return c.instances[id-1]
}

// Len returns the number of registered instances.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}

// SetDefaultFamily selects the family used when none of the requested
// families is registered.
func (c *Collection) SetDefaultFamily(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.defaultFamily = strings.ToLower(name)
	c.familyCache.Invalidate()
}

// DefaultFamily returns the default family name as registered.
func (c *Collection) DefaultFamily() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if insts := c.families[c.defaultFamily]; len(insts) > 0 {
		return insts[0].family
	}
	return c.defaultFamily
}

// DisableFontFallback stops character fallback: characters missing from
// the requested families are not matched against other fonts.
func (c *Collection) DisableFontFallback() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fallback = false
	c.familyCache.Invalidate()
	c.charCache.Invalidate()
}

// ClearFontFamilyCache drops every cached family resolution.
func (c *Collection) ClearFontFamilyCache() {
	c.familyCache.Invalidate()
}

// CacheStats returns statistics of the family and character caches.
func (c *Collection) CacheStats() (families, chars cache.Stats) {
	return c.familyCache.Stats(), c.charCache.Stats()
}

// ResolveFamilies returns the registered families to search for a run
// requesting names in locale. Unknown names are skipped; if none is known,
// the default family is used. With fallback enabled, families that earlier
// served fallback for the locale are appended.
func (c *Collection) ResolveFamilies(names []string, locale string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	locale = localeKey(locale)
	key := familyKey{families: strings.ToLower(strings.Join(names, ",")), locale: locale}
	return c.familyCache.GetOrCreate(key, func() []string {
		return c.resolveFamiliesLocked(names, locale)
	})
}

func (c *Collection) resolveFamiliesLocked(names []string, locale string) []string {
	var out []string
	for _, name := range names {
		k := strings.ToLower(strings.TrimSpace(name))
		if _, ok := c.families[k]; ok && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		if _, ok := c.families[c.defaultFamily]; ok {
			out = append(out, c.defaultFamily)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if c.fallback {
		extra := make([]string, 0, len(c.localeFallbacks[locale]))
		for fam := range c.localeFallbacks[locale] {
			if !slices.Contains(out, fam) {
				extra = append(extra, fam)
			}
		}
		slices.Sort(extra)
		out = append(out, extra...)
	}
	return out
}

// MatchFamily returns the instance of family name closest to style. An
// empty name selects the default family.
func (c *Collection) MatchFamily(name string, style Style) (*Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = c.defaultFamily
	}
	if inst := nearest(c.families[key], style, 0); inst != nil {
		return inst, nil
	}
	return nil, &ResolutionError{Family: name, Style: style}
}

// MatchCharacter returns an instance covering r, preferring the style
// closest to style. Registered families are searched in registration order,
// with families already used as fallback for locale tried first.
func (c *Collection) MatchCharacter(r rune, locale string, style Style) (*Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	locale = localeKey(locale)
	if !c.fallback {
		return nil, &ResolutionError{Rune: r, Locale: locale, Style: style}
	}

	key := charKey{r: r, locale: locale, style: style.Bits()}
	if inst, ok := c.charCache.Get(key); ok {
		if inst == nil {
			return nil, &ResolutionError{Rune: r, Locale: locale, Style: style}
		}
		return inst, nil
	}

	inst := c.matchCharacterLocked(r, locale, style)
	c.charCache.Set(key, inst)
	if inst == nil {
		c.logger.Warn("font resolution failed",
			slog.String("rune", string(r)),
			slog.String("locale", locale))
		return nil, &ResolutionError{Rune: r, Locale: locale, Style: style}
	}
	return inst, nil
}

func (c *Collection) matchCharacterLocked(r rune, locale string, style Style) *Instance {
	candidates := make([]string, 0, len(c.order))
	for fam := range c.localeFallbacks[locale] {
		candidates = append(candidates, fam)
	}
	slices.Sort(candidates)
	for _, fam := range c.order {
		if !slices.Contains(candidates, fam) {
			candidates = append(candidates, fam)
		}
	}

	for _, fam := range candidates {
		inst := nearest(c.families[fam], style, r)
		if inst == nil {
			continue
		}
		set := c.localeFallbacks[locale]
		if set == nil {
			set = make(map[string]struct{})
			c.localeFallbacks[locale] = set
		}
		if _, seen := set[fam]; !seen {
			set[fam] = struct{}{}
			// Resolved family lists now include a new fallback family.
			c.familyCache.Invalidate()
		}
		return inst
	}
	return nil
}

// FamilyInstance returns the member of a resolved family closest to style
// that covers r. r == 0 skips the coverage test.
func (c *Collection) FamilyInstance(family string, style Style, r rune) *Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nearest(c.families[strings.ToLower(family)], style, r)
}

// nearest picks the instance with the smallest style distance. When r is
// not zero only instances covering r are considered.
func nearest(insts []*Instance, style Style, r rune) *Instance {
	var best *Instance
	bestDist := 0
	for _, inst := range insts {
		if r != 0 && !inst.HasGlyph(r) {
			continue
		}
		d := style.distance(inst.style)
		if best == nil || d < bestDist {
			best, bestDist = inst, d
		}
	}
	return best
}

// localeKey reduces a locale to its base language so that "en-US" and
// "en-GB" share fallback state. Unparseable locales are kept verbatim.
func localeKey(locale string) string {
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	return base.String()
}
