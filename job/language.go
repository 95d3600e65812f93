package job

// languageNames maps ISO 639-2 codes to display names. Both the
// bibliographic and terminological variants are listed where they differ.
var languageNames = map[string]string{
	"eng": "English",
	"spa": "Spanish",
	"fre": "French",
	"fra": "French",
	"ger": "German",
	"deu": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"rus": "Russian",
	"jpn": "Japanese",
	"kor": "Korean",
	"chi": "Chinese",
	"zho": "Chinese",
	"ara": "Arabic",
	"hin": "Hindi",
	"ben": "Bengali",
	"dut": "Dutch",
	"nld": "Dutch",
	"swe": "Swedish",
	"nor": "Norwegian",
	"dan": "Danish",
	"fin": "Finnish",
	"pol": "Polish",
	"tur": "Turkish",
	"ukr": "Ukrainian",
	"cze": "Czech",
	"ces": "Czech",
	"gre": "Greek",
	"ell": "Greek",
	"heb": "Hebrew",
	"tha": "Thai",
	"vie": "Vietnamese",
	"ind": "Indonesian",
	"may": "Malay",
	"msa": "Malay",
	"rum": "Romanian",
	"ron": "Romanian",
	"hun": "Hungarian",
	"und": "Unknown",
}

// LanguageName returns the display name for an ISO 639-2 language code. An
// unmapped code is returned unchanged so the caller never loses information.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
