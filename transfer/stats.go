package transfer

import "github.com/sirupsen/logrus"

type Stats struct {
	// Data segments sent by the sender or flushed by the receiver
	Segments int
	// Payload bytes sent or written to the sink
	Bytes int64
	// Acknowledgements received by the sender or sent by the receiver
	Acks int
	// Segments that failed validation
	Corrupted int
	// Intact segments dropped because an earlier slot of their window was corrupt
	Discarded int
}

func (st Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"segments":  st.Segments,
		"bytes":     st.Bytes,
		"acks":      st.Acks,
		"corrupted": st.Corrupted,
		"discarded": st.Discarded,
	}
}
