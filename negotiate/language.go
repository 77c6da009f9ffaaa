package negotiate

import "golang.org/x/text/language"

// SelectLanguage picks the best supported language for an Accept-Language
// header. Supported values are BCP 47 tags in server preference order;
// unparsable entries are skipped. The second return is false when nothing in
// the header matches any supported language at all.
//
// Language selection is independent of serializer selection: it exists for
// producers whose output varies by language, not for choosing the producer.
func SelectLanguage(acceptLanguage string, supported []string) (string, bool) {
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		names = append(names, s)
	}
	if len(tags) == 0 {
		return "", false
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		// no usable preference: the server's first choice stands
		return names[0], true
	}

	matcher := language.NewMatcher(tags)
	_, idx, conf := matcher.Match(desired...)
	if conf == language.No {
		return "", false
	}
	return names[idx], true
}
