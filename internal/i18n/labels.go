// Package i18n provides the English and Persian labels of the presentation layer.
package i18n

import "fmt"

// Supported language codes.
const (
	English = "en"
	Persian = "fa"
)

// Languages lists the recognised language codes.
var Languages = []string{English, Persian}

// Label keys.
const (
	AppTitle          = "Network Full Sniffer"
	Start             = "Start"
	Stop              = "Stop"
	Clear             = "Clear"
	Interface         = "Interface:"
	Filter            = "Filter:"
	FilterExample     = "e.g., tcp port 80"
	Packets           = "Packets"
	Statistics        = "Statistics"
	Sniffing          = "Sniffing..."
	Ready             = "Ready"
	Error             = "Error"
	NoInterface       = "No network interface selected!"
	StartFailed       = "Failed to start sniffing:"
	ColNo             = "No."
	ColTime           = "Time"
	ColSource         = "Source"
	ColDestination    = "Destination"
	ColProtocol       = "Protocol"
	ColLength         = "Length"
	ColInfo           = "Info"
	ProtocolDist      = "Protocol Distribution"
	NetworkInterfaces = "Network Interfaces"
	Quit              = "Quit"
)

var persian = map[string]string{
	AppTitle:          "شبکه اسنیفر حرفه‌ای",
	Start:             "شروع",
	Stop:              "توقف",
	Clear:             "پاک کردن",
	Interface:         "رابط شبکه:",
	Filter:            "فیلتر:",
	FilterExample:     "مثال: tcp port 80",
	Packets:           "بسته‌ها",
	Statistics:        "آمار",
	Sniffing:          "در حال ضبط...",
	Ready:             "آماده",
	Error:             "خطا",
	NoInterface:       "هیچ رابط شبکه‌ای انتخاب نشده است!",
	StartFailed:       "شروع ضبط بسته‌ها ناموفق بود:",
	ColNo:             "شماره",
	ColTime:           "زمان",
	ColSource:         "مبدأ",
	ColDestination:    "مقصد",
	ColProtocol:       "پروتکل",
	ColLength:         "طول",
	ColInfo:           "اطلاعات",
	ProtocolDist:      "توزیع پروتکل‌ها",
	NetworkInterfaces: "رابط‌های شبکه",
	Quit:              "خروج",
}

// Labels translates label keys into one language. English labels are the keys
// themselves; unknown keys are returned unchanged.
type Labels struct {
	lang string
}

// New returns the Labels of lang.
func New(lang string) (*Labels, error) {
	l := &Labels{lang: English}
	if err := l.SetLanguage(lang); err != nil {
		return nil, err
	}
	return l, nil
}

// SetLanguage switches the language. Unsupported codes are rejected and the
// current language is kept.
func (l *Labels) SetLanguage(lang string) error {
	switch lang {
	case English, Persian:
		l.lang = lang
		return nil
	default:
		return fmt.Errorf("unsupported language %q", lang)
	}
}

// Language returns the current language code.
func (l *Labels) Language() string {
	return l.lang
}

// RightToLeft reports whether the current language is written right to left.
func (l *Labels) RightToLeft() bool {
	return l.lang == Persian
}

// Get returns the label of key in the current language.
func (l *Labels) Get(key string) string {
	if l.lang == Persian {
		if s, ok := persian[key]; ok {
			return s
		}
	}
	return key
}
