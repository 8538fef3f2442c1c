// Package translate formats user-visible messages in the host locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DEFAULT_LOCALE = "en-US" // Used when the host reports no locale.
)

var (
	lock    sync.RWMutex
	printer *message.Printer
)

// Locales returns the host locales in order of preference.
func Locales() (locales []string) {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("batpu: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	return
}

// SetLocale selects the language of messages formatted from now on. An
// empty tag selects the host locales.
func SetLocale(tag string) (err error) {
	var p *message.Printer
	if len(tag) == 0 {
		p = message.NewPrinter(message.MatchLanguage(Locales()...))
	} else {
		var lang language.Tag
		lang, err = language.Parse(tag)
		if err != nil {
			return
		}
		p = message.NewPrinter(lang)
	}

	lock.Lock()
	printer = p
	lock.Unlock()

	return
}

func current() (p *message.Printer) {
	lock.RLock()
	p = printer
	lock.RUnlock()

	if p == nil {
		_ = SetLocale("")
		lock.RLock()
		p = printer
		lock.RUnlock()
	}

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return current().Sprintf(key, args...)
}
