package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/erraggy/resttools/resterrors"
)

// PathMatcher matches request paths against templates like "/pets/{petId}"
// and extracts the parameter values.
//
// A parameter whose name begins with "/" is a remainder segment: it greedily
// captures the rest of the path, slashes included, and the captured value may
// be empty. A remainder parameter must be the last element of its template.
type PathMatcher struct {
	// template is the original path template (e.g., "/pets/{petId}")
	template string

	// regex is the compiled pattern for matching
	regex *regexp.Regexp

	// paramNames are the parameter names in order of appearance
	paramNames []string

	// specificity is used for sorting matchers (higher = more specific)
	specificity int
}

// NewPathMatcher compiles a path template. Malformed templates (unclosed or
// empty braces, duplicate names, a remainder parameter that is not last) are
// configuration errors.
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" {
		return nil, pathConfigError(template, "path template cannot be empty")
	}

	var regexBuf strings.Builder
	regexBuf.WriteString("^")

	paramNames := []string{}
	specificity := 0

	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.Index(template[i:], "}")
			if end == -1 {
				return nil, pathConfigError(template, fmt.Sprintf("unclosed path parameter at position %d", i))
			}

			paramName := template[i+1 : i+end]
			if paramName == "" {
				return nil, pathConfigError(template, fmt.Sprintf("empty path parameter at position %d", i))
			}
			for _, existing := range paramNames {
				if existing == paramName {
					return nil, pathConfigError(template, fmt.Sprintf("duplicate path parameter %q", paramName))
				}
			}
			paramNames = append(paramNames, paramName)

			if strings.HasPrefix(paramName, "/") {
				// remainder segment: everything to the end of the path,
				// possibly nothing
				if i+end+1 != len(template) {
					return nil, pathConfigError(template, fmt.Sprintf("remainder parameter %q must be last", paramName))
				}
				regexBuf.WriteString("(.*)")
				// remainder segments sort after single-segment parameters
				specificity--
			} else {
				// one path segment, per RFC 3986 segment separation
				regexBuf.WriteString("([^/]+)")
			}

			i += end + 1
			// Parameters reduce specificity (exact matches are more specific)
			specificity--
		} else {
			c := template[i]
			if strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++

			if c != '/' {
				specificity++
			}
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, &resterrors.ConfigError{
			Option:  "path",
			Value:   template,
			Message: "failed to compile path pattern",
			Cause:   err,
		}
	}

	return &PathMatcher{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
	}, nil
}

// pathConfigError builds the common malformed-template error.
func pathConfigError(template, msg string) error {
	return &resterrors.ConfigError{
		Option:  "path",
		Value:   template,
		Message: msg,
	}
}

// Match checks whether the path matches this template. On a match it returns
// true and the extracted parameter values keyed by name.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	matches := pm.regex.FindStringSubmatch(path)
	if matches == nil {
		return false, nil
	}
	if len(matches) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		params[name] = matches[i+1]
	}
	return true, params
}

// Template returns the original path template.
func (pm *PathMatcher) Template() string {
	return pm.template
}

// ParamNames returns the parameter names in order of appearance.
func (pm *PathMatcher) ParamNames() []string {
	return pm.paramNames
}

// sortMatchers orders matchers by specificity (highest first), then template
// length (longest first), then alphabetically for stability, so that exact
// paths are tried before parameterized ones.
func sortMatchers(ops []*Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		mi, mj := ops[i].matcher, ops[j].matcher
		if mi.specificity != mj.specificity {
			return mi.specificity > mj.specificity
		}
		if len(mi.template) != len(mj.template) {
			return len(mi.template) > len(mj.template)
		}
		return mi.template < mj.template
	})
}
