package project

// Category is the kind of work a project asks for.
type Category string

const (
	CategoryWebDevelopment Category = "WebDevelopment"
	CategoryMobileApp      Category = "MobileApp"
	CategoryUIUXDesign     Category = "UIUXDesign"
	CategoryGraphicDesign  Category = "GraphicDesign"
	CategoryContentWriting Category = "ContentWriting"
	CategorySEO            Category = "SEO"
	CategoryMarketing      Category = "Marketing"
	CategoryOther          Category = "Other"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryWebDevelopment,
	CategoryMobileApp,
	CategoryUIUXDesign,
	CategoryGraphicDesign,
	CategoryContentWriting,
	CategorySEO,
	CategoryMarketing,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryWebDevelopment: "Web Development",
	CategoryMobileApp:      "Mobile App",
	CategoryUIUXDesign:     "UI/UX Design",
	CategoryGraphicDesign:  "Graphic Design",
	CategoryContentWriting: "Content Writing",
	CategorySEO:            "SEO",
	CategoryMarketing:      "Marketing",
	CategoryOther:          "Other",
}

// IsValid returns true if the category is one of the defined constants.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name, or the raw value if unknown.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Priority is how urgently the client needs the work.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists every priority in declaration order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsValid returns true if the priority is one of the defined constants.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name.
func (p Priority) Label() string {
	return string(p)
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every status in declaration order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name.
func (s Status) Label() string {
	if s == StatusInProgress {
		return "In Progress"
	}
	return string(s)
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Values converts a typed enumeration list to its raw string values.
func Values[T ~string](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it)
	}
	return out
}
