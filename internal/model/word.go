package model

import "time"

// SavedWord is a looked-up word persisted into a personal category.
// Created by a save action after a successful lookup; removed by explicit
// deletion or a category bulk-clear. No in-place edit.
type SavedWord struct {
	ID                    string                 `json:"id" firestore:"-"`
	Word                  string                 `json:"word" firestore:"word"`
	Translation           string                 `json:"translation,omitempty" firestore:"translation"`
	Pronunciation         CanonicalPronunciation `json:"pronunciation" firestore:"pronunciation"`
	PartOfSpeech          string                 `json:"part_of_speech,omitempty" firestore:"partOfSpeech"`
	Definition            string                 `json:"definition,omitempty" firestore:"definition"`
	DefinitionTranslation string                 `json:"definition_translation,omitempty" firestore:"definitionTranslation"`
	Example               string                 `json:"example,omitempty" firestore:"example"`
	Category              string                 `json:"category" firestore:"-"`
	CreatedAt             time.Time              `json:"created_at" firestore:"createdAt"`
}

// Category groups saved words under a user-chosen name. Slug is the stable
// identifier; WordCount is derived, never stored.
type Category struct {
	Slug      string    `json:"slug" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	WordCount int       `json:"word_count" firestore:"-"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
