package japanese

import "strings"

// HiraganaToKatakana converts every hiragana rune in s to katakana.
func HiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x3041 && r <= 0x3096, r == 0x309D, r == 0x309E:
			return r + 0x60
		}
		return r
	}, s)
}

// KatakanaToHiragana converts every full-width katakana rune in s to hiragana.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x30A1 && r <= 0x30F6, r == 0x30FD, r == 0x30FE:
			return r - 0x60
		}
		return r
	}, s)
}
