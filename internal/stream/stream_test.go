package stream

import (
	"errors"
	"math"
	"testing"

	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/orientation"
)

type fakeTarget struct {
	attitude *orientation.Attitude
	heading  *float64
	accel    *orientation.Vector3
	strategy heading.Strategy
	cleared  []string
}

func (f *fakeTarget) SetAttitude(a orientation.Attitude) error {
	f.attitude = &a
	return nil
}

func (f *fakeTarget) SetHeading(h float64) error {
	f.heading = &h
	return nil
}

func (f *fakeTarget) SetAcceleration(v orientation.Vector3) error {
	f.accel = &v
	return nil
}

func (f *fakeTarget) ClearAttitude() error {
	f.cleared = append(f.cleared, "attitude")
	return nil
}

func (f *fakeTarget) ClearHeading() error {
	f.cleared = append(f.cleared, "heading")
	return nil
}

func (f *fakeTarget) ClearAcceleration() error {
	f.cleared = append(f.cleared, "acceleration")
	return nil
}

func (f *fakeTarget) SetStrategy(s heading.Strategy) error {
	f.strategy = s
	return nil
}

func newSubscriber() (*Subscriber, *fakeTarget) {
	target := &fakeTarget{}
	return &Subscriber{Topics: DefaultTopics, Target: target}, target
}

func TestHandleHeading(t *testing.T) {
	s, target := newSubscriber()
	if err := s.Handle(DefaultTopics.Heading, []byte("123.5")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if target.heading == nil || *target.heading != 123.5 {
		t.Fatalf("heading=%v want 123.5", target.heading)
	}
	if err := s.Handle(DefaultTopics.Heading, []byte(`"north"`)); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleNullClears(t *testing.T) {
	s, target := newSubscriber()
	for _, topic := range []string{DefaultTopics.Attitude, DefaultTopics.Heading, DefaultTopics.Acceleration} {
		if err := s.Handle(topic, []byte(" null\n")); err != nil {
			t.Fatalf("%s: %v", topic, err)
		}
	}
	want := []string{"attitude", "heading", "acceleration"}
	if len(target.cleared) != len(want) {
		t.Fatalf("cleared=%v want %v", target.cleared, want)
	}
	for i := range want {
		if target.cleared[i] != want[i] {
			t.Fatalf("cleared=%v want %v", target.cleared, want)
		}
	}
	if target.attitude != nil || target.heading != nil || target.accel != nil {
		t.Fatalf("null payload set a value")
	}
}

func TestHandleEulerOnlyAttitude(t *testing.T) {
	s, target := newSubscriber()
	if err := s.Handle(DefaultTopics.Attitude, []byte(`{"pitch":0,"roll":0,"yaw":1.5707963267948966}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	q := target.attitude.Quaternion
	if math.Abs(q.W-math.Sqrt2/2) > 1e-9 || math.Abs(q.Z-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("quaternion=%+v want 90° about Z", q)
	}
}

func TestHandleStrategy(t *testing.T) {
	s, target := newSubscriber()
	tests := []struct {
		payload string
		want    heading.Strategy
	}{
		{"3", heading.QuaternionTiltCompensation},
		{`"yaw_normalized"`, heading.YawNormalized},
		{"elevation_gated", heading.ElevationGated},
	}
	for _, tt := range tests {
		if err := s.Handle(DefaultTopics.Strategy, []byte(tt.payload)); err != nil {
			t.Fatalf("%s: %v", tt.payload, err)
		}
		if target.strategy != tt.want {
			t.Fatalf("%s: got=%v want=%v", tt.payload, target.strategy, tt.want)
		}
	}
	if err := s.Handle(DefaultTopics.Strategy, []byte("17")); err == nil {
		t.Fatalf("out of range index accepted")
	}
}

func TestHandleUnknownTopic(t *testing.T) {
	s, _ := newSubscriber()
	if err := s.Handle("view360/other", []byte("1")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTopicListSkipsEmpty(t *testing.T) {
	s := &Subscriber{Topics: Topics{Heading: "h", Strategy: "s"}}
	if got := s.topicList(); len(got) != 2 || got[0] != "h" || got[1] != "s" {
		t.Fatalf("got=%v", got)
	}
}

func TestProducerLoopback(t *testing.T) {
	s, target := newSubscriber()
	p := &Producer{
		Topics:  DefaultTopics,
		publish: s.Handle,
	}

	src := orientation.NewMockSource()
	r, err := src.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := p.Publish(r); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if target.attitude == nil || target.heading == nil || target.accel == nil {
		t.Fatalf("missing fields: %+v", target)
	}
	if math.Abs(*target.heading-*r.Heading) > 1e-12 {
		t.Fatalf("heading=%v want %v", *target.heading, *r.Heading)
	}
	if math.Abs(target.attitude.Yaw-r.Attitude.Yaw) > 1e-12 {
		t.Fatalf("yaw=%v want %v", target.attitude.Yaw, r.Attitude.Yaw)
	}
}

func TestProducerSkipsMissingFields(t *testing.T) {
	var topics []string
	p := &Producer{
		Topics: DefaultTopics,
		publish: func(topic string, _ []byte) error {
			topics = append(topics, topic)
			return nil
		},
	}
	h := 10.0
	if err := p.Publish(orientation.Reading{Heading: &h}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(topics) != 1 || topics[0] != DefaultTopics.Heading {
		t.Fatalf("topics=%v", topics)
	}
}

func TestProducerWrapsPublishError(t *testing.T) {
	down := errors.New("broker down")
	p := &Producer{
		Topics:  DefaultTopics,
		publish: func(string, []byte) error { return down },
	}
	h := 1.0
	if err := p.Publish(orientation.Reading{Heading: &h}); !errors.Is(err, down) {
		t.Fatalf("err=%v want wrapped broker error", err)
	}
}
