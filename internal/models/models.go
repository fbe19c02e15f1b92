package models

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Skill{},
		&Tag{},
		&Course{},
		&Document{},
		&Roadmap{},
		&RoadmapTag{},
		&Node{},
		&Edge{},
		&Favorite{},
		&Notification{},
		&UserProgress{},
	}
}
