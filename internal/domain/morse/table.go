package morse

// wordGapCode is the code of the space character; it stands for a word gap.
const wordGapCode = " "

// table maps upper-case characters to their code. It is never mutated.
//
//nolint:gochecknoglobals // Read-only lookup table.
var table = map[rune]string{
	'A': ".-",
	'B': "-...",
	'C': "-.-.",
	'D': "-..",
	'E': ".",
	'F': "..-.",
	'G': "--.",
	'H': "....",
	'I': "..",
	'J': ".---",
	'K': "-.-",
	'L': ".-..",
	'M': "--",
	'N': "-.",
	'O': "---",
	'P': ".--.",
	'Q': "--.-",
	'R': ".-.",
	'S': "...",
	'T': "-",
	'U': "..-",
	'V': "...-",
	'W': ".--",
	'X': "-..-",
	'Y': "-.--",
	'Z': "--..",
	'0': "-----",
	'1': ".----",
	'2': "..---",
	'3': "...--",
	'4': "....-",
	'5': ".....",
	'6': "-....",
	'7': "--...",
	'8': "---..",
	'9': "----.",
	' ': wordGapCode,
	'.': ".-.-.-",
	',': "--..--",
	'?': "..--..",
	'!': "-.-.--",
	'/': "-..-.",
	'@': ".--.-.",
	'&': ".-...",
}

// reverse maps a dot/dash code back to its character.
//
//nolint:gochecknoglobals // Derived once from table.
var reverse = func() map[string]rune {
	m := make(map[string]rune, len(table))
	for r, code := range table {
		if code != wordGapCode {
			m[code] = r
		}
	}

	return m
}()

// Lookup returns the code for r, folding ASCII lower case first.
// Characters outside the table yield the empty code.
func Lookup(r rune) string {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}

	return table[r]
}

// Supported reports whether r has a non-empty code.
func Supported(r rune) bool {
	return Lookup(r) != ""
}
