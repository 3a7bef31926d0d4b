package matcher

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/services/areas"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func product(area, name string, platforms ...domain.Platform) domain.Product {
	return domain.Product{Area: area, ProductName: name, Platforms: platforms}
}

func platform(name string, threats ...string) domain.Platform {
	return domain.Platform{Name: name, Threats: threats}
}

func dataset(products ...domain.Product) domain.Dataset {
	return domain.Dataset{Products: products}
}

func TestCheckThreatRejectsBadArea(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	full := dataset(product("OP9", "x", platform("SU-57", "S500")))
	for _, area := range []string{"OP9", "", "op10"} {
		_, err := CheckThreat(reg, area, "S500", full, full, fixedNow)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("area %q: err = %v, want invalid argument", area, err)
		}
	}
}

func TestCheckThreatRejectsEmptyThreat(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	for _, threat := range []string{"", "   "} {
		_, err := CheckThreat(reg, "OP1", threat, domain.Dataset{}, domain.Dataset{}, fixedNow)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("threat %q: err = %v, want invalid argument", threat, err)
		}
	}
}

func TestCheckThreatNormalizesArea(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(product("OP7", "Air", platform("SU-57", "S500"), platform("MIG-31", "S400")))

	res, err := CheckThreat(reg, "op7", "S500", issues, domain.Dataset{}, fixedNow)
	if err != nil {
		t.Fatalf("CheckThreat: %v", err)
	}
	if res.Area != "OP7" || res.Threat != "S500" {
		t.Errorf("result area/threat = %s/%s", res.Area, res.Threat)
	}
	if res.TotalMatches != 1 || len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", res.TotalMatches)
	}
	want := domain.Match{
		Platform:  "SU-57",
		Message:   domain.MessageCritical,
		Area:      "OP7",
		Threat:    "S500",
		Type:      domain.MatchCritical,
		Timestamp: fixedNow,
	}
	if res.Matches[0] != want {
		t.Errorf("match = %+v, want %+v", res.Matches[0], want)
	}
}

func TestCheckThreatCriticalBeforeRegeneration(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(product("OP2", "A", platform("P1", "T1"), platform("P2", "T1")))
	concessions := dataset(product("OP2", "B", platform("C1", "T1")))

	res, err := CheckThreat(reg, "OP2", "T1", issues, concessions, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range res.Matches {
		got = append(got, string(m.Type)+":"+m.Platform)
	}
	want := []string{"critical:P1", "critical:P2", "regeneration:C1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matches = %v, want %v", got, want)
	}
	if res.Matches[2].Message != domain.MessageRegeneration {
		t.Errorf("regeneration message = %q", res.Matches[2].Message)
	}
}

func TestCheckThreatNoMatches(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(product("OP3", "A", platform("P1", "T1")))
	concessions := dataset(product("OP3", "B", platform("C1", "T2")))

	res, err := CheckThreat(reg, "OP3", "T9", issues, concessions, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatches != 0 || res.Matches == nil || len(res.Matches) != 0 {
		t.Errorf("expected empty non-nil matches, got %#v", res.Matches)
	}

	res, err = CheckThreat(reg, "OP4", "T1", issues, concessions, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatches != 0 {
		t.Errorf("area without product should yield no matches, got %d", res.TotalMatches)
	}
}

func TestCheckThreatCaseSensitive(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(product("OP1", "A", platform("P1", "s500")))
	res, err := CheckThreat(reg, "OP1", "S500", issues, domain.Dataset{}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatches != 0 {
		t.Errorf("threat comparison must be case-sensitive")
	}
}

func TestCheckThreatFirstProductWins(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(
		product("OP5", "first", platform("P1", "T1")),
		product("OP5", "second", platform("P2", "T1")),
	)
	res, err := CheckThreat(reg, "OP5", "T1", issues, domain.Dataset{}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatches != 1 || res.Matches[0].Platform != "P1" {
		t.Errorf("only the first OP5 product should be consulted, got %+v", res.Matches)
	}
}

func TestCheckThreatIdempotent(t *testing.T) {
	reg := areas.New(areas.DefaultAreas)
	issues := dataset(product("OP1", "A", platform("P1", "T1")))
	concessions := dataset(product("OP1", "B", platform("C1", "T1")))

	a, err := CheckThreat(reg, "OP1", "T1", issues, concessions, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CheckThreat(reg, "OP1", "T1", issues, concessions, fixedNow.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Matches {
		a.Matches[i].Timestamp = time.Time{}
		b.Matches[i].Timestamp = time.Time{}
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestGroupByArea(t *testing.T) {
	ds := dataset(product("OP1", "a"), product("OP2", "b"), product("OP1", "c"))
	got := GroupByArea(ds)
	if len(got) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(got))
	}
	if len(got["OP1"]) != 2 || got["OP1"][0].ProductName != "a" || got["OP1"][1].ProductName != "c" {
		t.Errorf("OP1 bucket = %+v", got["OP1"])
	}
	if len(got["OP2"]) != 1 {
		t.Errorf("OP2 bucket = %+v", got["OP2"])
	}
	if order := AreaOrder(ds); !reflect.DeepEqual(order, []string{"OP1", "OP2"}) {
		t.Errorf("AreaOrder = %v", order)
	}
}

func TestGroupByAreaKeepsUnknownAreas(t *testing.T) {
	got := GroupByArea(dataset(product("ZZ9", "x")))
	if _, ok := got["ZZ9"]; !ok {
		t.Error("areas outside the configured set must be reported verbatim")
	}
	if len(GroupByArea(domain.Dataset{})) != 0 {
		t.Error("empty dataset should group to an empty map")
	}
}
