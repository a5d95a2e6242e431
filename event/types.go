package event

// Agenda is one timed entry inside a schedule day.
type Agenda struct {
	ID     int    `json:"id"`
	Time   string `json:"time"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Schedule is one day of the conference program.
type Schedule struct {
	ID         int      `json:"id"`
	DocumentID string   `json:"documentId"`
	Title      string   `json:"title"`
	Day        string   `json:"day"`
	Date       string   `json:"date"`
	Order      int      `json:"order"`
	Agenda     []Agenda `json:"agenda"`
}

// LiveSession is a streamed or in-progress session.
type LiveSession struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Anchors string `json:"anchors"`
	Time    string `json:"time"`
	EndTime string `json:"endtime"`
	Order   int    `json:"order"`
	State   string `json:"state"`
}

// Image carries the subset of upload metadata the app renders.
type Image struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Speaker struct {
	ID          int    `json:"id"`
	FullName    string `json:"fullname"`
	Title       string `json:"title"`
	Profile     string `json:"profile"`
	Order       int    `json:"order"`
	SpeakerType string `json:"speakerType"`
	Image       *Image `json:"image"`
}

type Sponsor struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	Image       *Image `json:"image"`
}

type Abstract struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organisation string `json:"organisation"`
	Category     string `json:"category"`
	Title        string `json:"title"`
}

type Announcement struct {
	ID             int    `json:"id"`
	Description    string `json:"description"`
	Order          int    `json:"order"`
	DeliveryOption string `json:"delivery_option"`
}
