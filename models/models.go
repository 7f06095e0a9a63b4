package models

import "github.com/google/uuid"

// assignID fills an empty string primary key before insert.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels lists every table AutoMigrate manages.
func AllModels() []interface{} {
	return []interface{}{
		&UserProfile{}, &AdminUser{}, &Comment{}, &CommentReaction{}, &Creator{},
		&CreatorPost{}, &Report{}, &Ban{}, &RateLimitEvent{}, &FeatureFlag{}, &VideoUpload{},
	}
}
