package prayer

type Prayer struct {
	Name  string `json:"name"`
	Units string `json:"units"`
	Time  string `json:"time"`
	Icon  string `json:"icon"`
}

type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Guide struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Prayers  []Prayer `json:"prayers"`
	Steps    []Step   `json:"steps"`
}
