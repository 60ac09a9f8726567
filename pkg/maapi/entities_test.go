package maapi

import (
	"encoding/json"
	"testing"
)

func TestItemCountFromNumber(t *testing.T) {
	var q PlayerQueue
	if err := json.Unmarshal([]byte(`{"queue_id": "a", "items": 5}`), &q); err != nil {
		t.Fatal(err)
	}
	if q.Items != 5 {
		t.Errorf("Items = %d, want 5", q.Items)
	}
}

func TestItemCountFromList(t *testing.T) {
	var q PlayerQueue
	if err := json.Unmarshal([]byte(`{"queue_id": "a", "items": [{}, {}, {}]}`), &q); err != nil {
		t.Fatal(err)
	}
	if q.Items != 3 {
		t.Errorf("Items = %d, want 3", q.Items)
	}
}

func TestQueueIndexDefaultsToMinusOne(t *testing.T) {
	var q PlayerQueue
	if err := json.Unmarshal([]byte(`{"queue_id": "a", "items": 2, "current_index": null}`), &q); err != nil {
		t.Fatal(err)
	}
	if q.Index() != -1 {
		t.Errorf("Index = %d, want -1", q.Index())
	}
}

func TestImageRefFromString(t *testing.T) {
	var item QueueItem
	if err := json.Unmarshal([]byte(`{"name": "x", "image": "https://cdn/img.jpg"}`), &item); err != nil {
		t.Fatal(err)
	}
	if got := item.Image.URL("http://hub:8095"); got != "https://cdn/img.jpg" {
		t.Errorf("URL = %q, want the string verbatim", got)
	}
}

func TestImageRefFromObject(t *testing.T) {
	var item QueueItem
	payload := `{"name": "x", "image": {"path": "/imageproxy?x=1", "remotely_accessible": false}}`
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatal(err)
	}
	if got := item.Image.URL("http://hub:8095"); got != "http://hub:8095/imageproxy?x=1" {
		t.Errorf("URL = %q, want prefixed path", got)
	}
}

func TestDecodeMediaItemsBareArray(t *testing.T) {
	items, err := DecodeMediaItems([]byte(`[{"item_id": "1", "name": "a"}, {"item_id": "2", "name": "b"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "a" || items[1].ItemID != "2" {
		t.Errorf("unexpected items: %+v", items)
	}
	if string(items[0].Raw) != `{"item_id": "1", "name": "a"}` {
		t.Errorf("Raw not preserved: %s", items[0].Raw)
	}
}

func TestDecodeMediaItemsWrapper(t *testing.T) {
	items, err := DecodeMediaItems([]byte(`{"items": [{"uri": "library://radio/5", "media_type": "radio"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].MediaType != "radio" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestDecodeMediaItemsEmpty(t *testing.T) {
	for _, payload := range []string{"", "null", `{"items": null}`} {
		items, err := DecodeMediaItems([]byte(payload))
		if err != nil {
			t.Fatalf("%q: %v", payload, err)
		}
		if len(items) != 0 {
			t.Errorf("%q: len = %d, want 0", payload, len(items))
		}
	}
}

func TestHasFeature(t *testing.T) {
	p := Player{SupportedFeatures: []string{"pause", "power"}}
	if !p.HasFeature(FeaturePause) {
		t.Error("HasFeature(pause) = false")
	}
	if p.HasFeature(FeatureNext) {
		t.Error("HasFeature(next) = true")
	}
}
