package shortcuts

import (
	"fmt"
	"strconv"
	"strings"
)

// Keysym is an X11 keysym, the same numbers xkbcommon hands out
type Keysym uint32

const (
	KeyNone      = Keysym(0)
	KeySpace     = Keysym(0x0020)
	KeyBackSpace = Keysym(0xff08)
	KeyTab       = Keysym(0xff09)
	KeyReturn    = Keysym(0xff0d)
	KeyEscape    = Keysym(0xff1b)
	KeyPrint     = Keysym(0xff61)
	KeyF1        = Keysym(0xffbe)
	KeyF12       = Keysym(0xffc9)
	KeyDelete    = Keysym(0xffff)

	KeyMonBrightnessUp   = Keysym(0x1008ff02)
	KeyMonBrightnessDown = Keysym(0x1008ff03)
	KeyKbdBrightnessUp   = Keysym(0x1008ff05)
	KeyKbdBrightnessDown = Keysym(0x1008ff06)
	KeyAudioLowerVolume  = Keysym(0x1008ff11)
	KeyAudioMute         = Keysym(0x1008ff12)
	KeyAudioRaiseVolume  = Keysym(0x1008ff13)
	KeySearch            = Keysym(0x1008ff1b)
	KeyWWW               = Keysym(0x1008ff2e)
)

var keysymNames = map[string]Keysym{
	"space":     KeySpace,
	"backspace": KeyBackSpace,
	"tab":       KeyTab,
	"return":    KeyReturn,
	"enter":     KeyReturn,
	"escape":    KeyEscape,
	"print":     KeyPrint,
	"delete":    KeyDelete,

	"xf86monbrightnessup":   KeyMonBrightnessUp,
	"xf86monbrightnessdown": KeyMonBrightnessDown,
	"xf86kbdbrightnessup":   KeyKbdBrightnessUp,
	"xf86kbdbrightnessdown": KeyKbdBrightnessDown,
	"xf86audiolowervolume":  KeyAudioLowerVolume,
	"xf86audiomute":         KeyAudioMute,
	"xf86audioraisevolume":  KeyAudioRaiseVolume,
	"xf86search":            KeySearch,
	"xf86www":               KeyWWW,
}

// ParseKeysym understands key names like "Tab", "XF86AudioMute", "F5", single
// letters and digits, and raw numbers like "0xff61"
func ParseKeysym(name string) (Keysym, error) {
	lower := strings.ToLower(name)
	if sym, ok := keysymNames[lower]; ok {
		return sym, nil
	}
	if len(lower) == 1 {
		c := lower[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return Keysym(c), nil
		}
	}
	if len(lower) > 1 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Keysym(n-1), nil
		}
	}
	if strings.HasPrefix(lower, "0x") {
		if n, err := strconv.ParseUint(lower[2:], 16, 32); err == nil {
			return Keysym(n), nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// normalize folds upper case latin letters onto lower case, shift is tracked as a modifier
func (k Keysym) normalize() Keysym {
	if k >= 'A' && k <= 'Z' {
		return k + ('a' - 'A')
	}
	return k
}

func (k Keysym) String() string {
	for name, sym := range keysymNames {
		if sym == k && name != "enter" {
			return name
		}
	}
	switch {
	case (k >= 'a' && k <= 'z') || (k >= '0' && k <= '9'):
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	return fmt.Sprintf("%#x", uint32(k))
}
