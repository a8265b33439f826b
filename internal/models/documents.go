package models

// Structured JSON documents embedded in courses, questions and papers.

type TableData struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Label   string     `json:"label,omitempty"`
}

// QuestionPart is a sub-question; parts nest through SubParts.
type QuestionPart struct {
	Label       string         `json:"label,omitempty"`
	Text        string         `json:"text"`
	Answer      string         `json:"answer,omitempty"`
	Marks       *float64       `json:"marks,omitempty"`
	SubParts    []QuestionPart `json:"subParts,omitempty"`
	MediaType   MediaType      `json:"mediaType,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	FigureLabel string         `json:"figureLabel,omitempty"`
	TableData   *TableData     `json:"tableData,omitempty"`
}

type CognitiveLevel struct {
	Count string  `json:"count"`
	Marks float64 `json:"marks"`
}

// MatrixRow is one line of a CLO/MQF specification table (JSU / CIST).
type MatrixRow struct {
	Task      string                    `json:"task,omitempty"`
	CLOs      []string                  `json:"clos,omitempty"`
	TopicCode string                    `json:"topicCode,omitempty"`
	Domain    string                    `json:"domain,omitempty"`
	Levels    map[string]CognitiveLevel `json:"levels,omitempty"`
	TotalMark *float64                  `json:"totalMark,omitempty"`
	Construct string                    `json:"construct,omitempty"`
	ItemTypes []string                  `json:"itemTypes,omitempty"`

	// legacy row shape
	MQFCluster      string                    `json:"mqfCluster,omitempty"`
	CLO             string                    `json:"clo,omitempty"`
	Topic           string                    `json:"topic,omitempty"`
	ItemType        string                    `json:"itemType,omitempty"`
	Taxonomy        string                    `json:"taxonomy,omitempty"`
	Marks           *float64                  `json:"marks,omitempty"`
	CognitiveLevels map[string]CognitiveLevel `json:"cognitiveLevels,omitempty"`
}

type HeaderData struct {
	Department     string `json:"department"`
	CourseCode     string `json:"courseCode"`
	CourseName     string `json:"courseName"`
	Session        string `json:"session"`
	AssessmentType string `json:"assessmentType"`
	Percentage     string `json:"percentage"`
	Set            string `json:"set"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

type StudentSectionData struct {
	Duration   string  `json:"duration"`
	TotalMarks float64 `json:"totalMarks"`
}

type FooterData struct {
	PreparedBy   string `json:"preparedBy"`
	ReviewedBy   string `json:"reviewedBy"`
	EndorsedBy   string `json:"endorsedBy"`
	PreparedDate string `json:"preparedDate"`
	ReviewedDate string `json:"reviewedDate"`
	EndorsedDate string `json:"endorsedDate"`
}
