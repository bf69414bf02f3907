package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "prop" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "型が不正です"
		case "coercion_failed":
			return "値を変換できません"
		case "out_of_range":
			return "範囲外の値です"
		case "constraint_violation":
			return "制約に違反しています"
		case "composite_failed":
			return "いずれの候補にも一致しません"
		case "unknown_prop":
			if p := data["prop"]; p != "" {
				return "未知のプロパティです: " + p
			}
			return "未知のプロパティです"
		case "invalid_default":
			return "既定値が不正です"
		case "duplicate_prop":
			return "プロパティが重複しています"
		case "invalid_name":
			return "名前が不正です"
		case "duplicate_schema":
			return "スキーマが重複しています"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "type mismatch"
		case "coercion_failed":
			return "coercion failed"
		case "out_of_range":
			return "value out of range"
		case "constraint_violation":
			return "constraint violated"
		case "composite_failed":
			return "no alternative accepted the value"
		case "unknown_prop":
			if p := data["prop"]; p != "" {
				return "unknown property: " + p
			}
			return "unknown property"
		case "invalid_default":
			return "invalid default value"
		case "duplicate_prop":
			return "duplicate property"
		case "invalid_name":
			return "invalid name"
		case "duplicate_schema":
			return "duplicate schema"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
