package home_energy_model

import (
	"encoding/json"
	"fmt"
)

// ProjectJson is the input document of a run.
type ProjectJson struct {
	SimulationTime     SimulationTimeJson              `json:"SimulationTime"`
	ExternalConditions ExternalConditionsJson          `json:"ExternalConditions"`
	InternalGains      OrderedMap[InternalGainsJson]   `json:"InternalGains"`
	ApplianceGains     OrderedMap[InternalGainsJson]   `json:"ApplianceGains"`
	ColdWaterSource    OrderedMap[ColdWaterSourceJson] `json:"ColdWaterSource"`
	EnergySupply       OrderedMap[EnergySupplyJson]    `json:"EnergySupply"`
	Control            OrderedMap[ControlJson]         `json:"Control"`
	HotWaterSource     HotWaterSourcesJson             `json:"HotWaterSource"`
	Shower             OrderedMap[ShowerJson]          `json:"Shower"`
	Bath               OrderedMap[BathJson]            `json:"Bath"`
	Other              OrderedMap[OtherWaterUseJson]   `json:"Other"`
	Distribution       HotWaterDistributionJson        `json:"Distribution"`
	Events             EventsJson                      `json:"Events"`
	HeatSourceWet      OrderedMap[json.RawMessage]     `json:"HeatSourceWet"`   // BoilerJson, HeatNetworkJson or HeatPumpJson
	SpaceHeatSystem    OrderedMap[json.RawMessage]     `json:"SpaceHeatSystem"` // InstantElecHeaterJson, ElecStorageHeaterJson or WetDistributionJson
	Infiltration       *InfiltrationJson               `json:"Infiltration"`
	Ventilation        *VentilationJson                `json:"Ventilation"`
	Zone               OrderedMap[ZoneJson]            `json:"Zone"`
	HeatingControlType string                          `json:"HeatingControlType"`
	NumberOfBedrooms   int                             `json:"NumberOfBedrooms"`
	PartGcompliance    bool                            `json:"PartGcompliance"`
}

type ZoneJson struct {
	SpaceHeatSystem  string                          `json:"SpaceHeatSystem"`
	SpaceHeatControl string                          `json:"SpaceHeatControl"` // "livingroom" or "restofdwelling"
	ControlCool      string                          `json:"Control_cool"`
	Area             float64                         `json:"area"`   // m2
	Volume           float64                         `json:"volume"` // m3
	TempSetpntInit   float64                         `json:"temp_setpnt_init"`
	BuildingElement  OrderedMap[BuildingElementJson] `json:"BuildingElement"`
	ThermalBridging  OrderedMap[ThermalBridgeJson]   `json:"ThermalBridging"`
}

type HotWaterSourcesJson struct {
	HwCylinder HotWaterSourceJson `json:"hw cylinder"`
}

/*
HotWaterSourceJson is the hot water system of the dwelling.

	"type" is "StorageTank", "CombiBoiler" or "HIU". A storage tank uses the
	tank fields; the other two name the HeatSourceWet that heats the water.
*/
type HotWaterSourceJson struct {
	StorageTankJson
	HeatSourceWet string `json:"HeatSourceWet"`
	BoilerServiceWaterCombiJson
}

type HotWaterDistributionJson struct {
	Internal *PipeworkJson `json:"internal"`
	External *PipeworkJson `json:"external"`
}

type typed_json struct {
	Type string `json:"type"`
}

// json_type peeks the "type" of a heat source or space heating system.
func json_type(key string, raw json.RawMessage) (string, error) {
	var t typed_json
	if err := json.Unmarshal(raw, &t); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	if t.Type == "" {
		return "", newConfigurationError(key+".type", "missing")
	}
	return t.Type, nil
}

func (d *EventsJson) empty() bool {
	return len(d.Shower) == 0 && len(d.Bath) == 0 && len(d.Other) == 0
}
