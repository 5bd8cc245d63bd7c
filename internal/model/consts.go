package model

//
// consts.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "slices"

// DownloadStatus is backend-reported lifecycle state of one episode download.
type DownloadStatus string

const (
	StatusPending     DownloadStatus = "pending"
	StatusDownloading DownloadStatus = "downloading"
	StatusCompleted   DownloadStatus = "completed"
	StatusFailed      DownloadStatus = "failed"
	StatusSkipped     DownloadStatus = "skipped"
)

//nolint:gochecknoglobals
var ValidStatuses = []DownloadStatus{
	StatusPending, StatusDownloading, StatusCompleted, StatusFailed, StatusSkipped,
}

func IsValidStatus(status DownloadStatus) bool {
	return slices.Contains(ValidStatuses, status)
}

// QualityPreference select which media variant the backend downloads.
type QualityPreference string

const (
	// QualityEnclosure is whatever the feed enclosure points at.
	QualityEnclosure QualityPreference = "enclosure"
	QualityOriginal  QualityPreference = "original"
	QualityFlac      QualityPreference = "flac"
	QualityMp3       QualityPreference = "mp3"
)

//nolint:gochecknoglobals
var ValidQualities = []QualityPreference{
	QualityEnclosure, QualityOriginal, QualityFlac, QualityMp3,
}

func IsValidQuality(quality QualityPreference) bool {
	return slices.Contains(ValidQualities, quality)
}
