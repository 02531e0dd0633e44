package model

// RoomNo is a short numeric code identifying an active room
type RoomNo int

// GameID uniquely identifies a game
type GameID string
