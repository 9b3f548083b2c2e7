// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package b2

// Session holds the credentials and endpoints returned by a single
// b2_authorize_account handshake. It is created once per inbound request
// and discarded at request end; tokens are never reused across requests.
type Session struct {
	AccountID   string `json:"accountId"`
	AuthToken   string `json:"authorizationToken"`
	APIURL      string `json:"apiUrl"`
	DownloadURL string `json:"downloadUrl"`
}

// FileVersion is one physical upload of a logical path. The upstream
// returns versions in chronological order within a path, oldest first.
type FileVersion struct {
	FileID        string `json:"fileId"`
	FileName      string `json:"fileName"`
	ContentSHA1   string `json:"contentSha1"`
	ContentLength int64  `json:"contentLength"`
	ContentType   string `json:"contentType"`
	Action        string `json:"action"`
}

// ActionUpload marks a real upload. Other actions ("hide", "start",
// "folder") are store-internal markers and never eligible for serving.
const ActionUpload = "upload"

// Cursor is the pagination position for b2_list_file_versions.
type Cursor struct {
	StartName string
	StartID   string
}

// VersionPage is one page of a version listing. NextName/NextID seed the
// cursor for the following page; an empty NextName means the listing is
// exhausted.
type VersionPage struct {
	Files    []FileVersion
	NextName string
	NextID   string
}

type listFileVersionsRequest struct {
	BucketID      string `json:"bucketId"`
	StartFileName string `json:"startFileName,omitempty"`
	StartFileID   string `json:"startFileId,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	MaxFileCount  int    `json:"maxFileCount,omitempty"`
}

type listFileVersionsResponse struct {
	Files        []FileVersion `json:"files"`
	NextFileName string        `json:"nextFileName"`
	NextFileID   string        `json:"nextFileId"`
}

type deleteFileVersionRequest struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
