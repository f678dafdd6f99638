package widget

// Texts holds the fixed strings the widget renders.
type Texts struct {
	Greeting     string
	Thinking     string
	Apology      string
	NetworkError string
}

// DefaultLocale is used when a locale has no catalog
const DefaultLocale = "zh-CN"

var catalogs = map[string]Texts{
	"zh-CN": {
		Greeting:     "你好呀！我是可爱的Synapse AI助手~ 🌸 有什么可以帮你的吗？",
		Thinking:     "思考中... 🧠",
		Apology:      "哎呀，出错了呢... 😅 请再试一次~",
		NetworkError: "网络连接出现问题啦... 🌐 请检查网络后重试",
	},
	"en": {
		Greeting:     "Hi there! I'm Synapse, your friendly AI assistant~ 🌸 How can I help you?",
		Thinking:     "Thinking... 🧠",
		Apology:      "Oops, something went wrong... 😅 Please try again~",
		NetworkError: "Network connection problem... 🌐 Please check your network and try again",
	},
}

// TextsFor returns the catalog for locale, falling back to DefaultLocale
func TextsFor(locale string) Texts {
	if t, ok := catalogs[locale]; ok {
		return t
	}
	return catalogs[DefaultLocale]
}
