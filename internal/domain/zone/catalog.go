package zone

// Drill-zone ids.
const (
	North = "north"
	East  = "east"
	South = "south"
	West  = "west"
)

// DefaultDrillZones returns the four built-in drill zones in lookup order.
//
// North and East share the 122.5°E meridian between 23.8°N and 25.5°N; a
// point on that edge belongs to North because it is listed first.
func DefaultDrillZones() []Zone {
	return []Zone{
		Rect(North, "North Zone", "#ff4d4f", 23.8, 120.6, 26.8, 122.5),
		Rect(East, "East Zone", "#fa8c16", 22.0, 122.5, 25.5, 125.0),
		Rect(South, "South Zone", "#fadb14", 20.5, 119.0, 22.0, 121.5),
		Rect(West, "West Zone", "#722ed1", 22.5, 118.0, 25.0, 120.0),
	}
}

// DefaultFishingHotspots returns the traditional fishing grounds around
// Taiwan.  They are used for presence counts only.
func DefaultFishingHotspots() []Zone {
	return []Zone{
		Rect("taiwan_bank", "Taiwan Bank", "#13c2c2", 22.0, 117.0, 23.5, 119.5),
		Rect("penghu", "Penghu", "#36cfc9", 23.0, 119.0, 24.0, 120.0),
		Rect("kuroshio_east", "Kuroshio East", "#5cdbd3", 22.5, 121.0, 24.5, 122.0),
		Rect("northeast", "Northeast Grounds", "#87e8de", 24.8, 121.5, 25.8, 123.0),
		Rect("southwest", "Southwest Grounds", "#b5f5ec", 22.0, 120.0, 23.0, 120.8),
	}
}

//Personal.AI order the ending
