package catalog

import "slices"

type WarmupVideo struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	VideoURL     string `json:"video_url"`
	TimeSegment  string `json:"time_segment"`
	Instructions string `json:"instructions"`
}

type WarmupCategory struct {
	Name   string        `json:"name"`
	Videos []WarmupVideo `json:"videos"`
}

var warmupCategories = []WarmupCategory{
	{
		Name: "Mobility",
		Videos: []WarmupVideo{
			{Key: "arm-circles", Title: "Arm Circles", VideoURL: "https://www.youtube.com/embed/140RTNMciH8", TimeSegment: "0:00-1:00", Instructions: "20 forward, 20 backward, small to large circles."},
			{Key: "hip-openers", Title: "Hip Openers", VideoURL: "https://www.youtube.com/embed/NG9qbvAN3gQ", TimeSegment: "1:00-2:30", Instructions: "10 per side, controlled."},
			{Key: "thoracic-rotations", Title: "Thoracic Rotations", VideoURL: "https://www.youtube.com/embed/3t5Qb8V2vBI", TimeSegment: "2:30-4:00", Instructions: "8 per side, follow the hand with your eyes."},
		},
	},
	{
		Name: "Activation",
		Videos: []WarmupVideo{
			{Key: "band-pull-aparts", Title: "Band Pull-Aparts", VideoURL: "https://www.youtube.com/embed/JObYtU7Y7ag", TimeSegment: "4:00-5:00", Instructions: "2 x 15, squeeze the shoulder blades."},
			{Key: "glute-bridges", Title: "Glute Bridges", VideoURL: "https://www.youtube.com/embed/wPM8icPu6H8", TimeSegment: "5:00-6:30", Instructions: "2 x 12, pause 1s at the top."},
		},
	},
	{
		Name: "Dynamic Stretch",
		Videos: []WarmupVideo{
			{Key: "walking-lunges", Title: "Walking Lunges", VideoURL: "https://www.youtube.com/embed/L8fvypPrzzs", TimeSegment: "6:30-8:00", Instructions: "10 per leg, upright torso."},
			{Key: "leg-swings", Title: "Leg Swings", VideoURL: "https://www.youtube.com/embed/6y1mmI2FZ_Y", TimeSegment: "8:00-9:00", Instructions: "15 front-to-back, 15 side-to-side per leg."},
		},
	},
}

// WarmupCategories returns the warm-up videos grouped by category, in display order.
func WarmupCategories() []WarmupCategory {
	categories := make([]WarmupCategory, len(warmupCategories))
	for i, c := range warmupCategories {
		categories[i] = WarmupCategory{Name: c.Name, Videos: WarmupVideosIn(c)}
	}
	return categories
}

func WarmupVideosIn(c WarmupCategory) []WarmupVideo {
	videos := slices.Clone(c.Videos)
	for i := range videos {
		videos[i].Category = c.Name
	}
	return videos
}

// WarmupVideos returns all warm-up videos flattened across categories.
// This order drives the video unlock chain.
func WarmupVideos() []WarmupVideo {
	var videos []WarmupVideo
	for _, c := range warmupCategories {
		videos = append(videos, WarmupVideosIn(c)...)
	}
	return videos
}

func WarmupVideoKeys() []string {
	videos := WarmupVideos()
	keys := make([]string, len(videos))
	for i, v := range videos {
		keys[i] = v.Key
	}
	return keys
}
