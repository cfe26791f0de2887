package models

// Option pairs a stored tag value with the label shown in the UI.
type Option struct {
	Value string
	Label string
}

// GenreOptions lists the poetry genres selectable by writers and readers.
var GenreOptions = []Option{
	{Value: "lyrical", Label: "Lyrical"},
	{Value: "narrative", Label: "Narrative"},
	{Value: "sonnet", Label: "Sonnet"},
	{Value: "haiku", Label: "Haiku"},
	{Value: "free-verse", Label: "Free Verse"},
	{Value: "epic", Label: "Epic"},
	{Value: "ballad", Label: "Ballad"},
	{Value: "limerick", Label: "Limerick"},
	{Value: "acrostic", Label: "Acrostic"},
	{Value: "other", Label: "Other"},
}

// MoodOptions lists the mood preferences selectable by readers.
var MoodOptions = []Option{
	{Value: "reflective", Label: "Reflective"},
	{Value: "uplifting", Label: "Uplifting"},
	{Value: "melancholic", Label: "Melancholic"},
	{Value: "romantic", Label: "Romantic"},
	{Value: "inspiring", Label: "Inspiring"},
	{Value: "peaceful", Label: "Peaceful"},
	{Value: "energetic", Label: "Energetic"},
	{Value: "contemplative", Label: "Contemplative"},
}

// ValidGenre reports whether the tag appears in GenreOptions.
func ValidGenre(tag string) bool {
	return containsOption(GenreOptions, tag)
}

// ValidMood reports whether the tag appears in MoodOptions.
func ValidMood(tag string) bool {
	return containsOption(MoodOptions, tag)
}

func containsOption(options []Option, tag string) bool {
	for _, option := range options {
		if option.Value == tag {
			return true
		}
	}
	return false
}
