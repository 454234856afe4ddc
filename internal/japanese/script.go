// Package japanese provides script detection, kana conversion and text
// segmentation for Japanese input.
package japanese

import "unicode"

// IsKanji reports whether r is a CJK ideograph or the iteration mark 々.
func IsKanji(r rune) bool {
	return unicode.Is(unicode.Han, r) || r == '々' || r == '〆'
}

// IsHiragana reports whether r is in the hiragana block.
func IsHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x309F
}

// IsKatakana reports whether r is full-width or half-width katakana.
func IsKatakana(r rune) bool {
	return (r >= 0x30A0 && r <= 0x30FF) || (r >= 0x31F0 && r <= 0x31FF) || (r >= 0xFF66 && r <= 0xFF9F)
}

// IsKana reports whether r is hiragana or katakana.
func IsKana(r rune) bool {
	return IsHiragana(r) || IsKatakana(r)
}

// IsJapanese reports whether r is kanji, kana or Japanese punctuation.
func IsJapanese(r rune) bool {
	return IsKanji(r) || IsKana(r) || (r >= 0x3000 && r <= 0x303F)
}

// IsRomanLetter reports whether r is an ASCII letter.
func IsRomanLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsSentencePunct reports whether r ends or separates Japanese clauses.
func IsSentencePunct(r rune) bool {
	switch r {
	case '。', '、', '！', '？', '!', '?':
		return true
	}
	return false
}

// IsJapaneseText reports whether every letter in s is Japanese and at least one is.
// Spaces, digits and ASCII punctuation are ignored.
func IsJapaneseText(s string) bool {
	found := false
	for _, r := range s {
		if IsJapanese(r) {
			found = true
			continue
		}
		if unicode.IsLetter(r) {
			return false
		}
	}
	return found
}

// HasJapanese reports whether s contains any kanji or kana.
func HasJapanese(s string) bool {
	for _, r := range s {
		if IsKanji(r) || IsKana(r) {
			return true
		}
	}
	return false
}

// HasRoman reports whether s contains an ASCII letter.
func HasRoman(s string) bool {
	for _, r := range s {
		if IsRomanLetter(r) {
			return true
		}
	}
	return false
}

// HasLetter reports whether s contains any letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsHiraganaText reports whether s is non-empty and consists of hiragana only.
// The prolonged sound mark ー is accepted.
func IsHiraganaText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHiragana(r) && r != 'ー' {
			return false
		}
	}
	return true
}

// IsKanaText reports whether s is non-empty and consists of kana only.
func IsKanaText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// IsSingleKanji reports whether s is exactly one kanji.
func IsSingleKanji(s string) bool {
	runes := []rune(s)
	return len(runes) == 1 && IsKanji(runes[0])
}

// Kanji returns the kanji of s in order of appearance, without duplicates.
func Kanji(s string) []string {
	seen := make(map[rune]struct{})
	var out []string
	for _, r := range s {
		if !IsKanji(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, string(r))
	}
	return out
}
