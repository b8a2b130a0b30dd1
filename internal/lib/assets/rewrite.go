package assets

import "strings"

// DefaultEmulatorURL адрес локального эмулятора хранилища
const DefaultEmulatorURL = "http://localhost:8000"

// Rewriter подменяет адрес эмулятора на публичный адрес хранилища
type Rewriter struct {
	emulator   string
	publicBase string
}

func NewRewriter(emulatorURL, publicBaseURL string) *Rewriter {
	if emulatorURL == "" {
		emulatorURL = DefaultEmulatorURL
	}

	return &Rewriter{
		emulator:   strings.TrimSuffix(emulatorURL, "/"),
		publicBase: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Rewrite простая замена префикса, путь сохраняется. Без публичной базы URL не меняется
func (r *Rewriter) Rewrite(url string) string {
	if r.publicBase == "" || !strings.HasPrefix(url, r.emulator) {
		return url
	}

	rest := url[len(r.emulator):]
	if rest != "" && rest[0] != '/' && rest[0] != '?' {
		// localhost:80001 и подобные не наш хост
		return url
	}

	return r.publicBase + rest
}
