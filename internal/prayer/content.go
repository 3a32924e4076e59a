package prayer

// DefaultGuide is the static Hindi guide to the five daily prayers.
var DefaultGuide = Guide{
	Title:    "नमाज़ का मुकम्मल तरीका",
	Subtitle: "पांच वक्त की नमाज़ अदा करने का सरल और सही मार्गदर्शन।",
	Prayers: []Prayer{
		{Name: "फज्र (Fajr)", Units: "2 सुन्नत, 2 फर्ज़", Time: "भोर (सुबह होने से पहले)", Icon: "🌅"},
		{Name: "ज़ुहर (Dhuhr)", Units: "4 सुन्नत, 4 फर्ज़, 2 सुन्नत, 2 नफिल", Time: "दोपहर", Icon: "☀️"},
		{Name: "अस्र (Asr)", Units: "4 फर्ज़ (4 सुन्नत गैर मुअक्कदा)", Time: "तीसरे पहर", Icon: "🌇"},
		{Name: "मग़रिब (Maghrib)", Units: "3 फर्ज़, 2 सुन्नत, 2 नफिल", Time: "सूर्यास्त के तुरंत बाद", Icon: "🌙"},
		{Name: "इशा (Isha)", Units: "4 फर्ज़, 2 सुन्नत, 3 वितर, 2 नफिल", Time: "रात", Icon: "🌌"},
	},
	Steps: []Step{
		{Title: "नियत (Niyyah)", Description: "नमाज़ शुरू करने से पहले अपने दिल में पक्का इरादा करें कि आप कौन सी नमाज़ (जैसे फज्र, ज़ुहर आदि) अदा कर रहे हैं।", Icon: "🤲"},
		{Title: "तकबीर-ए-तहरीमा (Takbir)", Description: "अपने दोनों हाथों को कानों तक उठाएं और \"अल्लाहु अकबर\" कहें। अब अपने हाथों को नाभि के नीचे (या सीने पर) बांध लें।", Icon: "🙌"},
		{Title: "कयाम और किराअत (Standing)", Description: "सीधे खड़े रहें और सना, सूरह फातिहा और कुरान की कोई भी एक छोटी सूरह पढ़ें।", Icon: "🧍"},
		{Title: "रुकू (Bowing)", Description: "\"अल्लाहु अकबर\" कहकर झुकें, अपने हाथों को घुटनों पर रखें और \"सुब्हाना रब्बियल अज़ीम\" (3 बार) कहें।", Icon: "🙇"},
		{Title: "क़ौमा (Standing up)", Description: "\"समिअल्लाहु लिमन हमिदह\" कहते हुए सीधे खड़े हो जाएं और कहें \"रब्बना लकल हम्द\"।", Icon: "🆙"},
		{Title: "सजदा (Prostration)", Description: "\"अल्लाहु अकबर\" कहकर माथा ज़मीन पर रखें। \"सुब्हाना रब्बियल आला\" (3 बार) कहें। यह दो बार करना है।", Icon: "🧘"},
		{Title: "तशह्हुद (Sitting)", Description: "दो रकात के बाद या नमाज़ के आखिर में बैठें और अत्तहियात, दरूद शरीफ और दुआ-ए-मासूरा पढ़ें।", Icon: "🧎"},
		{Title: "सलाम (Ending)", Description: "पहले अपने दाएं कंधे की तरफ और फिर बाएं कंधे की तरफ गर्दन घुमाकर \"अस्सलामु अलैकुम व रहमतुल्लाह\" कहें।", Icon: "✨"},
	},
}
