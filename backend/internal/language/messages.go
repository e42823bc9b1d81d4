package language

// WelcomePrompt greets first-time users in all three seed languages
const WelcomePrompt = "Welcome! 🌍\n\nWhat's your preferred language?\nஉங்கள் விருப்ப மொழி என்ன?\nനിങ്ങളുടെ ഇഷ്ടമുള്ള ഭാഷ എന്താണ്?"

var confirmations = map[string]string{
	"en": "✅ Language set to English! How can I help you today?",
	"ta": "✅ மொழி தமிழ் என அமைக்கப்பட்டது! இன்று நான் உங்களுக்கு எப்படி உதவ முடியும்?",
	"ml": "✅ ഭാഷ മലയാളം ആയി സജ്ജമാക്കി! ഇന്ന് ഞാൻ നിങ്ങളെ എങ്ങനെ സഹായിക്കും?",
}

var errorMessages = map[string]string{
	"en": "❌ Sorry, I encountered an error. Please try again.",
	"ta": "❌ மன்னிக்கவும், ஒரு பிழை ஏற்பட்டது. மீண்டும் முயற்சிக்கவும்.",
	"ml": "❌ ക്ഷമിക്കണം, എനിക്ക് ഒരു പിശക് നേരിട്ടു. വീണ്ടും ശ്രമിക്കുക.",
}

// Confirmation returns the selection confirmation string for a language code,
// falling back to the English confirmation for codes with no localized string
func Confirmation(code string) string {
	if msg, ok := confirmations[code]; ok {
		return msg
	}
	return confirmations["en"]
}

// ErrorMessage returns the degraded-response error string for a language code,
// falling back to English
func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return errorMessages["en"]
}
