package nlp

// IntentKeywords is one row of the intent table. The table order is the
// tie-break order for every scoring path.
type IntentKeywords struct {
	Intent   Intent
	Keywords []string
}

func DefaultIntentTable() []IntentKeywords {
	return []IntentKeywords{
		{IntentBookSearch, []string{"find", "search", "locate", "book", "textbook"}},
		{IntentLibraryHours, []string{"hour", "open", "close", "schedule", "time"}},
		{IntentBookAvailability, []string{"available", "availability", "in stock", "on shelf"}},
		{IntentBookRenewal, []string{"renew", "extension", "prolong"}},
		{IntentBookReservation, []string{"reserve", "hold", "booking"}},
		{IntentBorrowingPolicy, []string{"policy", "rule", "limit", "fine", "how many", "how long"}},
		{IntentContactInfo, []string{"contact", "phone", "email", "call", "address", "department"}},
		{IntentResearchAssistance, []string{"research", "journal", "article", "database", "citation", "paper", "literature"}},
		{IntentStudyRooms, []string{"study room", "booking space", "reserve room"}},
		{IntentLibraryServices, []string{"printing", "scanning", "workshop", "service"}},
		{IntentGreeting, []string{"hello", "hi", "hey", "greetings", "morning", "afternoon", "evening"}},
		{IntentFarewell, []string{"bye", "goodbye", "thank", "thanks"}},
	}
}

// TrainingExample is one labelled utterance for the statistical classifier.
type TrainingExample struct {
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
}

func DefaultTrainingSet() []TrainingExample {
	return []TrainingExample{
		{"find books about computer science", IntentBookSearch},
		{"search for python programming books", IntentBookSearch},
		{"locate artificial intelligence textbooks", IntentBookSearch},
		{"where can i find physics books", IntentBookSearch},
		{"i need books on software engineering", IntentBookSearch},
		{"what are the library hours", IntentLibraryHours},
		{"when does the library open", IntentLibraryHours},
		{"what time does the library close", IntentLibraryHours},
		{"is the library open on weekends", IntentLibraryHours},
		{"library opening hours", IntentLibraryHours},
		{"is this book available", IntentBookAvailability},
		{"is the novel on the shelf", IntentBookAvailability},
		{"can i renew my books", IntentBookRenewal},
		{"extend my loan please", IntentBookRenewal},
		{"i want to reserve a book", IntentBookReservation},
		{"place a hold on this title", IntentBookReservation},
		{"how many books can i borrow", IntentBorrowingPolicy},
		{"what is the loan period", IntentBorrowingPolicy},
		{"how do i return books", IntentBorrowingPolicy},
		{"borrowing policy for students", IntentBorrowingPolicy},
		{"what are the overdue fines", IntentBorrowingPolicy},
		{"what is the library phone number", IntentContactInfo},
		{"how can i email the librarian", IntentContactInfo},
		{"i need help with research", IntentResearchAssistance},
		{"how do i find journal articles", IntentResearchAssistance},
		{"help with literature review", IntentResearchAssistance},
		{"database access for off campus", IntentResearchAssistance},
		{"research consultation appointment", IntentResearchAssistance},
		{"can i book a study room", IntentStudyRooms},
		{"are there group study spaces", IntentStudyRooms},
		{"where can i print documents", IntentLibraryServices},
		{"is there a scanner i can use", IntentLibraryServices},
		{"hello", IntentGreeting},
		{"hi there", IntentGreeting},
		{"good morning", IntentGreeting},
		{"thank you", IntentFarewell},
		{"goodbye", IntentFarewell},
		{"see you later", IntentFarewell},
	}
}

// DefaultIntentExamples are the canned phrases used for semantic similarity.
func DefaultIntentExamples() map[Intent][]string {
	return map[Intent][]string{
		IntentBookSearch:         {"find a book", "search the catalogue", "look for textbooks on a subject"},
		IntentLibraryHours:       {"library opening hours", "when does the library close", "is the library open today"},
		IntentBookAvailability:   {"is this book available", "is the book on the shelf", "check availability of a title"},
		IntentBookRenewal:        {"renew my borrowed book", "extend my loan period"},
		IntentBookReservation:    {"reserve a book", "place a hold on a title"},
		IntentBorrowingPolicy:    {"borrowing rules and limits", "late return fines", "how long can i keep a book"},
		IntentContactInfo:        {"library contact details", "phone number of the help desk", "email the librarian"},
		IntentResearchAssistance: {"help with research papers", "access journal databases", "citation help"},
		IntentStudyRooms:         {"book a study room", "group study space"},
		IntentLibraryServices:    {"printing and scanning", "library workshops and services"},
		IntentGreeting:           {"hello there", "good morning"},
		IntentFarewell:           {"goodbye", "thanks for the help"},
	}
}
