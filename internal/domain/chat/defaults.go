package chat

import (
	"slices"

	"github.com/yanqian/weatherchat/internal/domain/language"
)

// localizedCopy is the single table of user facing copy shared by the
// normalizer and the fallback responder.
type localizedCopy struct {
	reply   string
	bullets []string
	outfit  string
	safety  string
	actions []Action

	failure failureCopy
	weather weatherCopy
}

type failureCopy struct {
	general        string
	rateLimit      string
	invalidKey     string
	apiError       string
	generalTips    []string
	rateLimitTips  []string
	invalidKeyTips []string
	apiErrorTips   []string
	settingsAction Action
}

type weatherCopy struct {
	// reply takes name, description, temperature, feels like, humidity.
	reply string
	// outfit takes temperature and a band specific tip.
	outfit      string
	outfitBands [4]string
	// safety takes description and a condition specific tip.
	safety        string
	safetyRain    string
	safetyStorm   string
	safetySnow    string
	safetyHeat    string
	safetyGeneral string

	seasonalOutfit string
	checkLabel     string
	// checkDetail takes city and description.
	checkDetail   string
	defaultCity   string
	noInformation string
}

var localized = map[language.Language]localizedCopy{
	language.Japanese: {
		reply:   "天気情報をお伝えします。現在の天気を確認して、適切な対策を取りましょう。",
		bullets: []string{"天気を確認しましょう", "適切な服装を選びましょう", "安全に注意しましょう"},
		outfit:  "今日の天気に合った服装をお選びください",
		safety:  "外出時は天気の変化にご注意ください",
		actions: []Action{
			{Label: "天気確認", Detail: "最新の天気予報をチェック"},
			{Label: "準備", Detail: "外出に必要なものを準備"},
		},
		failure: failureCopy{
			general:        "すみません、現在システムに問題が発生しています。しばらくしてから再度お試しください。",
			rateLimit:      "AIサービスの利用制限に達しました。少し時間をおいてから再度お試しください。",
			invalidKey:     "AIサービスの設定に問題があります。APIキーを確認してください。",
			apiError:       "AIサービスでエラーが発生しました。現在は天気データのみでお答えします。",
			generalTips:    []string{"後でもう一度試してください", "天気アプリで確認してください"},
			rateLimitTips:  []string{"30秒〜1分待ってから再試行してください", "別の質問をしてみてください"},
			invalidKeyTips: []string{"APIキーの設定を確認してください", "キーに必要な権限があるか確認してください"},
			apiErrorTips:   []string{"しばらく待ってから再試行してください", "今は天気情報のみ利用可能です"},
			settingsAction: Action{Label: "API設定", Detail: "AIサービスのAPIキー設定を確認"},
		},
		weather: weatherCopy{
			reply:  "%sの現在の天気: %s、気温%s°C（体感%s°C）、湿度%s%%です。AIサービスでエラーが発生しているため、AIによる詳細な提案はできませんが、基本的な天気情報をお伝えします。",
			outfit: "%s°Cなので、%s",
			outfitBands: [4]string{
				"厚手のコートや手袋、マフラーで暖かくしてください",
				"ジャケットやセーターがおすすめです",
				"長袖シャツなど軽めの重ね着がちょうど良いです",
				"通気性の良い薄手の服と帽子がおすすめです",
			},
			safety:         "%sの天気です。%s",
			safetyRain:     "傘を持ち、滑りやすい路面に注意してください。",
			safetyStorm:    "できるだけ屋内にとどまり、開けた場所は避けてください。",
			safetySnow:     "滑りにくい靴を履き、移動には余裕を持ってください。",
			safetyHeat:     "熱中症を防ぐため、こまめに水分を補給してください。",
			safetyGeneral:  "外出時はご注意ください。",
			seasonalOutfit: "季節に応じた服装をお選びください",
			checkLabel:     "天気確認",
			checkDetail:    "%sの天気: %s",
			defaultCity:    "東京",
			noInformation:  "情報なし",
		},
	},
	language.English: {
		reply:   "Let me share the weather information with you. Let's check the current weather and take appropriate measures.",
		bullets: []string{"Check the weather", "Choose appropriate clothing", "Stay safe"},
		outfit:  "Please choose clothing suitable for today's weather",
		safety:  "Please be careful of weather changes when going out",
		actions: []Action{
			{Label: "Weather Check", Detail: "Check the latest weather forecast"},
			{Label: "Preparation", Detail: "Prepare what you need for going out"},
		},
		failure: failureCopy{
			general:        "Sorry, there is currently a system problem. Please try again later.",
			rateLimit:      "The AI service rate limit was reached. Please wait a moment before trying again.",
			invalidKey:     "There is a problem with the AI service settings. Please check the API key.",
			apiError:       "An error occurred with the AI service. Only weather data is currently available.",
			generalTips:    []string{"Please try again later", "Check a weather app"},
			rateLimitTips:  []string{"Wait 30 seconds to 1 minute before retrying", "Try asking a different question"},
			invalidKeyTips: []string{"Please check the API key settings", "Make sure the key has the required permissions"},
			apiErrorTips:   []string{"Please wait and try again", "Only weather information is available now"},
			settingsAction: Action{Label: "API Settings", Detail: "Check the AI service API key configuration"},
		},
		weather: weatherCopy{
			reply:  "Current weather in %s: %s, temperature %s°C (feels like %s°C), humidity %s%%. Detailed AI suggestions are not available right now because of an AI service error, but basic weather information is provided.",
			outfit: "It's %s°C, so %s",
			outfitBands: [4]string{
				"wear a warm coat, gloves and a scarf",
				"a jacket or sweater is a good idea",
				"light layers such as a long-sleeve shirt work well",
				"choose light, breathable clothing and a hat",
			},
			safety:         "The weather is %s. %s",
			safetyRain:     "Take an umbrella and watch for slippery roads.",
			safetyStorm:    "Stay indoors if possible and avoid open areas.",
			safetySnow:     "Wear non-slip shoes and allow extra travel time.",
			safetyHeat:     "Drink plenty of water to avoid heatstroke.",
			safetyGeneral:  "Please be careful when going out.",
			seasonalOutfit: "Please choose clothing appropriate for the season",
			checkLabel:     "Weather Check",
			checkDetail:    "Weather in %s: %s",
			defaultCity:    "Tokyo",
			noInformation:  "No information",
		},
	},
	language.Hindi: {
		reply:   "मैं आपके साथ मौसम की जानकारी साझा करता हूं। आइए वर्तमान मौसम की जांच करें और उचित उपाय करें।",
		bullets: []string{"मौसम की जांच करें", "उपयुक्त कपड़े चुनें", "सुरक्षित रहें"},
		outfit:  "कृपया आज के मौसम के अनुकूल कपड़े चुनें",
		safety:  "बाहर जाते समय मौसम के बदलाव से सावधान रहें",
		actions: []Action{
			{Label: "मौसम जांच", Detail: "नवीनतम मौसम पूर्वानुमान देखें"},
			{Label: "तैयारी", Detail: "बाहर जाने के लिए आवश्यक चीजें तैयार करें"},
		},
		failure: failureCopy{
			general:        "क्षमा करें, वर्तमान में सिस्टम में समस्या है। कृपया बाद में फिर से कोशिश करें।",
			rateLimit:      "AI सेवा की दर सीमा पहुंच गई। कृपया फिर से कोशिश करने से पहले थोड़ा इंतज़ार करें।",
			invalidKey:     "AI सेवा सेटिंग्स में समस्या है। कृपया API कुंजी जांचें।",
			apiError:       "AI सेवा में त्रुटि हुई। वर्तमान में केवल मौसम डेटा उपलब्ध है।",
			generalTips:    []string{"कृपया बाद में फिर से कोशिश करें", "मौसम ऐप देखें"},
			rateLimitTips:  []string{"फिर से कोशिश करने से पहले 30 सेकंड से 1 मिनट प्रतीक्षा करें", "एक अलग प्रश्न पूछने की कोशिश करें"},
			invalidKeyTips: []string{"कृपया API कुंजी सेटिंग्स जांचें", "सुनिश्चित करें कि कुंजी के पास आवश्यक अनुमतियां हैं"},
			apiErrorTips:   []string{"कृपया प्रतीक्षा करें और फिर से कोशिश करें", "अब केवल मौसम की जानकारी उपलब्ध है"},
			settingsAction: Action{Label: "API सेटिंग्स", Detail: "AI सेवा API कुंजी कॉन्फ़िगरेशन जांचें"},
		},
		weather: weatherCopy{
			reply:  "%s में वर्तमान मौसम: %s, तापमान %s°C (महसूस होता है %s°C), आर्द्रता %s%%। AI सेवा त्रुटि के कारण विस्तृत AI सुझाव उपलब्ध नहीं हैं, लेकिन बुनियादी मौसम जानकारी प्रदान की गई है।",
			outfit: "यह %s°C है, इसलिए %s",
			outfitBands: [4]string{
				"गर्म कोट, दस्ताने और मफलर पहनें",
				"जैकेट या स्वेटर पहनना अच्छा रहेगा",
				"हल्की परतें जैसे पूरी बाजू की शर्ट ठीक रहेगी",
				"हल्के, हवादार कपड़े और टोपी चुनें",
			},
			safety:         "मौसम %s है। %s",
			safetyRain:     "छाता साथ रखें और फिसलन भरी सड़कों से सावधान रहें।",
			safetyStorm:    "हो सके तो घर के अंदर रहें और खुले स्थानों से बचें।",
			safetySnow:     "फिसलन रोधी जूते पहनें और यात्रा के लिए अतिरिक्त समय रखें।",
			safetyHeat:     "लू से बचने के लिए खूब पानी पिएं।",
			safetyGeneral:  "बाहर जाते समय सावधान रहें।",
			seasonalOutfit: "कृपया मौसम के अनुकूल कपड़े चुनें",
			checkLabel:     "मौसम जांच",
			checkDetail:    "%s में मौसम: %s",
			defaultCity:    "टोक्यो",
			noInformation:  "कोई जानकारी नहीं",
		},
	},
}

func copyFor(lang language.Language) localizedCopy {
	if c, ok := localized[lang]; ok {
		return c
	}
	return localized[language.Default]
}

// DefaultResponse is the fully synthetic response for lang.
func DefaultResponse(lang language.Language) Response {
	c := copyFor(lang)
	return Response{
		Reply:   c.reply,
		Bullets: slices.Clone(c.bullets),
		Outfit:  c.outfit,
		Safety:  c.safety,
		Actions: slices.Clone(c.actions),
	}
}
