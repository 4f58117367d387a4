package model

// UserRecord holds a player's account data as maintained by the enrollment
// pipeline. The grader only reads it; the three cluster credential fields are
// co-required and treated as missing in aggregate when any one is absent.
type UserRecord struct {
	Email             string `json:"email"`
	Name              string `json:"name,omitempty"`
	ClientCertificate string `json:"client_certificate"`
	ClientKey         string `json:"client_key"`
	Endpoint          string `json:"endpoint"`
}
