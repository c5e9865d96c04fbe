package ollama

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// DefaultModel is used when the backend lists no models at all.
const DefaultModel = "llama2"

// versionToken is one element of a VersionKey: either a numeric run or a
// run of non-digit characters.
type versionToken struct {
	num   int
	str   string
	isNum bool
}

// VersionKey is a parsed version string that compares naturally, so that
// "3.10" orders above "3.9".
type VersionKey []versionToken

var versionTokenRe = regexp.MustCompile(`\d+|\D+`)

// ParseVersion splits a version string into alternating digit and non-digit
// runs. Digit runs compare numerically, everything else lexically.
func ParseVersion(s string) VersionKey {
	parts := versionTokenRe.FindAllString(s, -1)
	key := make(VersionKey, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			key = append(key, versionToken{num: n, isNum: true})
		} else {
			key = append(key, versionToken{str: p})
		}
	}
	return key
}

// CompareVersions orders two keys element-wise: numeric tokens numerically,
// string tokens lexically, numeric before string at the same position, and a
// shorter prefix below a longer one. Returns -1, 0 or 1.
func CompareVersions(a, b VersionKey) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		at, bt := a[i], b[i]
		switch {
		case at.isNum && bt.isNum:
			if at.num != bt.num {
				if at.num < bt.num {
					return -1
				}
				return 1
			}
		case !at.isNum && !bt.isNum:
			if c := strings.Compare(at.str, bt.str); c != 0 {
				return c
			}
		case at.isNum:
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

var llamaVersionRe = regexp.MustCompile(`llama(\d+(?:\.\d+)*)`)

// modelKey is the composite sort key for llama-family model names: base
// version first, then the "latest" tag flag, then the tag's own version.
type modelKey struct {
	base   VersionKey
	latest int
	tag    VersionKey
}

func parseModelKey(name string) modelKey {
	base, tag, _ := strings.Cut(name, ":")

	baseVersion := "0"
	if m := llamaVersionRe.FindStringSubmatch(strings.ToLower(base)); m != nil {
		baseVersion = m[1]
	}

	k := modelKey{
		base: ParseVersion(baseVersion),
		tag:  ParseVersion(tag),
	}
	if tag == "latest" {
		k.latest = 1
	}
	return k
}

func compareModelKeys(a, b modelKey) int {
	if c := CompareVersions(a.base, b.base); c != 0 {
		return c
	}
	if a.latest != b.latest {
		if a.latest < b.latest {
			return -1
		}
		return 1
	}
	return CompareVersions(a.tag, b.tag)
}

// BestLlamaModel picks the highest-versioned llama-family model from names.
// Among equal base versions the "latest" tag wins over any explicit tag.
// Returns false when no name starts with "llama".
func BestLlamaModel(names []string) (string, bool) {
	best := ""
	var bestKey modelKey
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), "llama") {
			continue
		}
		key := parseModelKey(name)
		if best == "" || compareModelKeys(key, bestKey) > 0 {
			best = name
			bestKey = key
		}
	}
	return best, best != ""
}

// ModelLister is the slice of Client used by BestModel.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// BestModel selects the model the chat should use: the best llama-family
// model if any, otherwise the first listed model, otherwise DefaultModel.
// Backend failures degrade to an empty list; BestModel never fails.
func BestModel(ctx context.Context, lister ModelLister) string {
	names, err := lister.ListModels(ctx)
	if err != nil {
		names = nil
	}
	if best, ok := BestLlamaModel(names); ok {
		return best
	}
	if len(names) > 0 {
		return names[0]
	}
	return DefaultModel
}
