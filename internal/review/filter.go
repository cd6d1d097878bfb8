package review

// VideoFilter specifies criteria for listing videos.
type VideoFilter struct {
	Status     *Status
	UploadedBy *string
	Query      *string // case-insensitive substring of the title
	Limit      int     // 0 = no limit
	Offset     int
}

// AnalyticsFilter specifies criteria for listing analytics rows.
// From and To are inclusive YYYY-MM-DD bounds.
type AnalyticsFilter struct {
	VideoID *string
	From    *string
	To      *string
	Newest  bool // order by date descending
}
