// Package models defines domain entities and persistence interfaces for museekly.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between layers
//   - [Query] : The pending artist/title input of a search form
//   - [SongRef] : Snapshot of the query that produced displayed lyrics
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SearchRecord] : One resolved lookup in the search history
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
