package srs

// ProtocolVersion is the server version this client announces.
const ProtocolVersion = "1.9.0.0"

type MsgType int

const (
	MsgUpdate MsgType = iota
	MsgPing
	MsgSync
	MsgRadioUpdate
	MsgServerSettings
	MsgClientDisconnect
	MsgVersionMismatch
	MsgExternalAWACSModePassword
	MsgExternalAWACSModeDisconnect
)

type Coalition int

const (
	CoalitionSpectator Coalition = iota
	CoalitionRed
	CoalitionBlue
)

type Modulation uint8

const (
	ModulationAM Modulation = iota
	ModulationFM
	ModulationIntercom
	ModulationDisabled
)

// Message is a single control message exchanged over the TCP connection.
type Message struct {
	Client         *Client           `json:"Client,omitempty"`
	Clients        []Client          `json:"Clients,omitempty"`
	ServerSettings map[string]string `json:"ServerSettings,omitempty"`
	MsgType        MsgType           `json:"MsgType"`
	Version        string            `json:"Version"`
}

type Client struct {
	ClientGUID string     `json:"ClientGuid"`
	Name       string     `json:"Name,omitempty"`
	Position   *Position  `json:"Position,omitempty"`
	Coalition  Coalition  `json:"Coalition"`
	RadioInfo  *RadioInfo `json:"RadioInfo,omitempty"`
}

type Position struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Alt float64 `json:"alt"`
}

type RadioInfo struct {
	Name     string   `json:"name"`
	Pos      Position `json:"pos"`
	Ptt      bool     `json:"ptt"`
	Radios   []Radio  `json:"radios"`
	Control  int      `json:"control"`
	Selected int      `json:"selected"`
	Unit     string   `json:"unit"`
	UnitID   uint32   `json:"unitId"`
	Simul    bool     `json:"simultaneousTransmission"`
}

type Radio struct {
	Enc        bool       `json:"enc"`
	EncKey     int        `json:"encKey"`
	EncMode    int        `json:"encMode"`
	FreqMax    float64    `json:"freqMax"`
	FreqMin    float64    `json:"freqMin"`
	Freq       float64    `json:"freq"`
	Modulation Modulation `json:"modulation"`
	Name       string     `json:"name"`
	SecFreq    float64    `json:"secFreq"`
	Volume     float64    `json:"volume"`
	FreqMode   int        `json:"freqMode"`
	VolMode    int        `json:"volMode"`
	Expansion  bool       `json:"expansion"`
	Channel    int        `json:"channel"`
	Simul      bool       `json:"simul"`
}

// syncMessage announces the client to the server.
func syncMessage(guid string, st Station, coalition Coalition) Message {
	pos := st.Position
	return Message{
		Client: &Client{
			ClientGUID: guid,
			Name:       st.Name,
			Position:   &pos,
			Coalition:  coalition,
		},
		MsgType: MsgSync,
		Version: ProtocolVersion,
	}
}

// radioUpdateMessage tunes the client's single radio to the station frequency.
func radioUpdateMessage(guid string, st Station, coalition Coalition, unitID uint32) Message {
	freq := float64(st.Frequency)
	pos := st.Position
	return Message{
		Client: &Client{
			ClientGUID: guid,
			Name:       st.Name,
			Position:   &pos,
			Coalition:  coalition,
			RadioInfo: &RadioInfo{
				Name: st.Name,
				Pos:  st.Position,
				Ptt:  true,
				Radios: []Radio{{
					FreqMin:    freq,
					FreqMax:    freq,
					Freq:       freq,
					Modulation: ModulationAM,
					Name:       st.Name,
					Volume:     1,
				}},
				Unit:   st.Name,
				UnitID: unitID,
			},
		},
		MsgType: MsgRadioUpdate,
		Version: ProtocolVersion,
	}
}
