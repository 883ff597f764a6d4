// Package testutil provides test doubles for the atc-transcribe packages.
//
// MockTranscriber stands in for *transcribe.Client wherever an api.Transcriber
// is accepted. It can be driven two ways:
//
//	m := testutil.NewMockTranscriber()
//	m.ResponseMap["/audio/1.wav"] = "cleared to land"
//	m.ErrorMap["/audio/2.wav"] = errors.New("boom")
//
// or with testify expectations:
//
//	m.On("Transcribe", mock.Anything, "/audio/1.wav").Return("cleared to land", nil)
package testutil
