package domain

// UploadOverrides carries the optional form fields that apply to the next
// file part of a multipart upload. The orchestrator consumes and zeroes
// the value after every file, so an override never leaks into a later
// item in the stream.
type UploadOverrides struct {
	Slug  string
	Title string
	Tags  []string
}

// Reset clears the per-file fields after a file part has been ingested.
func (o *UploadOverrides) Reset() {
	o.Slug = ""
	o.Title = ""
	o.Tags = nil
}
