package radio

// AuthMode mirrors the Wi-Fi authentication modes an AP can advertise.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWep
	AuthWpaPsk
	AuthWpa2Psk
	AuthWpaWpa2Psk
	AuthWpa2Enterprise
	AuthWpa3Psk
	AuthUnknown
)

var authModeNames = map[AuthMode]string{
	AuthOpen:           "OPEN",
	AuthWep:            "WEP",
	AuthWpaPsk:         "WPA_PSK",
	AuthWpa2Psk:        "WPA2_PSK",
	AuthWpaWpa2Psk:     "WPA_WPA2_PSK",
	AuthWpa2Enterprise: "WPA2_ENTERPRISE",
	AuthWpa3Psk:        "WPA3_PSK",
	AuthUnknown:        "UNKNOWN",
}

func (a AuthMode) String() string {
	if n, ok := authModeNames[a]; ok {
		return n
	}
	return "UNKNOWN"
}

// CipherType mirrors the pairwise/group cipher suites reported for an AP.
type CipherType int

const (
	CipherNone CipherType = iota
	CipherWep40
	CipherWep104
	CipherTkip
	CipherCcmp
	CipherTkipCcmp
	CipherUnknown
)

var cipherNames = map[CipherType]string{
	CipherNone:     "NONE",
	CipherWep40:    "WEP40",
	CipherWep104:   "WEP104",
	CipherTkip:     "TKIP",
	CipherCcmp:     "CCMP",
	CipherTkipCcmp: "TKIP_CCMP",
	CipherUnknown:  "UNKNOWN",
}

func (c CipherType) String() string {
	if n, ok := cipherNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// AccessPointRecord describes one AP observed during a scan, or the AP
// the radio is currently associated with.
type AccessPointRecord struct {
	SSID           string     `yaml:"ssid"`
	RSSI           int8       `yaml:"rssi"`
	PrimaryChannel uint8      `yaml:"channel"`
	AuthMode       AuthMode   `yaml:"authMode"`
	PairwiseCipher CipherType `yaml:"pairwiseCipher"`
	GroupCipher    CipherType `yaml:"groupCipher"`
}

// DefaultScanCapacity is the fixed capacity of a ScanResultTable.
const DefaultScanCapacity = 16

// ScanResultTable is the radio's fixed-capacity snapshot of the most
// recent scan. It is overwritten wholesale on each scan completion and is
// stable between scans.
type ScanResultTable struct {
	records  [DefaultScanCapacity]AccessPointRecord
	collected int
	totalSeen int
}

// Reset wipes the table, used on PreInit entry and on each Scanning
// entry.
func (t *ScanResultTable) Reset() {
	for i := range t.records {
		t.records[i] = AccessPointRecord{}
	}
	t.collected = 0
	t.totalSeen = 0
}

// Collected returns the number of records actually copied into the table
// (<= DefaultScanCapacity).
func (t *ScanResultTable) Collected() int { return t.collected }

// TotalSeen returns the provider-reported total number of APs observed,
// which may exceed Collected if the table capacity was exhausted.
func (t *ScanResultTable) TotalSeen() int { return t.totalSeen }

// At returns the i'th collected record.
func (t *ScanResultTable) At(i int) (AccessPointRecord, bool) {
	if i < 0 || i >= t.collected {
		return AccessPointRecord{}, false
	}
	return t.records[i], true
}

// fill is called by the driver-side scan collector (see radio.go's
// collectScanResults) with whatever the underlying Driver reports.
func (t *ScanResultTable) fill(total int, recs []AccessPointRecord) {
	t.totalSeen = total
	n := len(recs)
	if n > DefaultScanCapacity {
		n = DefaultScanCapacity
	}
	copy(t.records[:n], recs[:n])
	t.collected = n
}
