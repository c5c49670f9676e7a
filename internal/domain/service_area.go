package domain

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// ServiceAreaSchemaVersion - bumped whenever a layer is added to or removed from ServiceAreas
const ServiceAreaSchemaVersion = 3

// ServiceAreaLayer - name of an administrative/service polygon layer
type ServiceAreaLayer string

const (
	LayerCenterCityDistrict      ServiceAreaLayer = "center_city_district"
	LayerCUAZone                 ServiceAreaLayer = "cua_zone"
	LayerLIDistrict              ServiceAreaLayer = "li_district"
	LayerPhillyRisingArea        ServiceAreaLayer = "philly_rising_area"
	LayerCensusTract2010         ServiceAreaLayer = "census_tract_2010"
	LayerCensusBlockGroup2010    ServiceAreaLayer = "census_block_group_2010"
	LayerCensusBlock2010         ServiceAreaLayer = "census_block_2010"
	LayerCouncilDistrict2016     ServiceAreaLayer = "council_district_2016"
	LayerPoliticalWard           ServiceAreaLayer = "political_ward"
	LayerPoliticalDivision       ServiceAreaLayer = "political_division"
	LayerStateHouseRep2012       ServiceAreaLayer = "state_house_rep_2012"
	LayerStateSenate2012         ServiceAreaLayer = "state_senate_2012"
	LayerUSCongressional2012     ServiceAreaLayer = "us_congressional_2012"
	LayerPlanningDistrict        ServiceAreaLayer = "planning_district"
	LayerElementarySchool        ServiceAreaLayer = "elementary_school"
	LayerMiddleSchool            ServiceAreaLayer = "middle_school"
	LayerHighSchool              ServiceAreaLayer = "high_school"
	LayerZoning                  ServiceAreaLayer = "zoning"
	LayerZoningRCO               ServiceAreaLayer = "zoning_rco"
	LayerCommercialCorridor      ServiceAreaLayer = "commercial_corridor"
	LayerPoliceDivision          ServiceAreaLayer = "police_division"
	LayerPoliceDistrict          ServiceAreaLayer = "police_district"
	LayerPoliceServiceArea       ServiceAreaLayer = "police_service_area"
	LayerRubbishRecycleDay       ServiceAreaLayer = "rubbish_recycle_day"
	LayerRecyclingDiversionRate  ServiceAreaLayer = "recycling_diversion_rate"
	LayerLeafCollectionArea      ServiceAreaLayer = "leaf_collection_area"
	LayerSanitationArea          ServiceAreaLayer = "sanitation_area"
	LayerSanitationDistrict      ServiceAreaLayer = "sanitation_district"
	LayerHistoricStreet          ServiceAreaLayer = "historic_street"
	LayerHighwayDistrict         ServiceAreaLayer = "highway_district"
	LayerHighwaySection          ServiceAreaLayer = "highway_section"
	LayerHighwaySubsection       ServiceAreaLayer = "highway_subsection"
	LayerTrafficDistrict         ServiceAreaLayer = "traffic_district"
	LayerTrafficPMDistrict       ServiceAreaLayer = "traffic_pm_district"
	LayerStreetLightRoute        ServiceAreaLayer = "street_light_route"
	LayerPWDMaintDistrict        ServiceAreaLayer = "pwd_maint_district"
	LayerPWDPressureDistrict     ServiceAreaLayer = "pwd_pressure_district"
	LayerPWDTreatmentPlant       ServiceAreaLayer = "pwd_treatment_plant"
	LayerPWDWaterPlate           ServiceAreaLayer = "pwd_water_plate"
	LayerPWDCenterCityDistrict   ServiceAreaLayer = "pwd_center_city_district"
	LayerMajorPhilaWatershed     ServiceAreaLayer = "major_phila_watershed"
	LayerNeighborhoodAdvisoryCom ServiceAreaLayer = "neighborhood_advisory_committee"
)

// ServiceAreaLayers lists every layer in response order
var ServiceAreaLayers = []ServiceAreaLayer{
	LayerCenterCityDistrict,
	LayerCUAZone,
	LayerLIDistrict,
	LayerPhillyRisingArea,
	LayerCensusTract2010,
	LayerCensusBlockGroup2010,
	LayerCensusBlock2010,
	LayerCouncilDistrict2016,
	LayerPoliticalWard,
	LayerPoliticalDivision,
	LayerStateHouseRep2012,
	LayerStateSenate2012,
	LayerUSCongressional2012,
	LayerPlanningDistrict,
	LayerElementarySchool,
	LayerMiddleSchool,
	LayerHighSchool,
	LayerZoning,
	LayerZoningRCO,
	LayerCommercialCorridor,
	LayerPoliceDivision,
	LayerPoliceDistrict,
	LayerPoliceServiceArea,
	LayerRubbishRecycleDay,
	LayerRecyclingDiversionRate,
	LayerLeafCollectionArea,
	LayerSanitationArea,
	LayerSanitationDistrict,
	LayerHistoricStreet,
	LayerHighwayDistrict,
	LayerHighwaySection,
	LayerHighwaySubsection,
	LayerTrafficDistrict,
	LayerTrafficPMDistrict,
	LayerStreetLightRoute,
	LayerPWDMaintDistrict,
	LayerPWDPressureDistrict,
	LayerPWDTreatmentPlant,
	LayerPWDWaterPlate,
	LayerPWDCenterCityDistrict,
	LayerMajorPhilaWatershed,
	LayerNeighborhoodAdvisoryCom,
}

// ParseServiceAreaLayer validates a layer name
func ParseServiceAreaLayer(s string) (ServiceAreaLayer, error) {
	l := ServiceAreaLayer(s)
	var sa ServiceAreas
	if sa.field(l) == nil {
		return "", fmt.Errorf("unknown service area layer %q", s)
	}
	return l, nil
}

// ServiceAreas - value of every layer at one location. Empty string means the layer has no coverage there.
type ServiceAreas struct {
	CenterCityDistrict      string `json:"center_city_district" db:"center_city_district"`
	CUAZone                 string `json:"cua_zone" db:"cua_zone"`
	LIDistrict              string `json:"li_district" db:"li_district"`
	PhillyRisingArea        string `json:"philly_rising_area" db:"philly_rising_area"`
	CensusTract2010         string `json:"census_tract_2010" db:"census_tract_2010"`
	CensusBlockGroup2010    string `json:"census_block_group_2010" db:"census_block_group_2010"`
	CensusBlock2010         string `json:"census_block_2010" db:"census_block_2010"`
	CouncilDistrict2016     string `json:"council_district_2016" db:"council_district_2016"`
	PoliticalWard           string `json:"political_ward" db:"political_ward"`
	PoliticalDivision       string `json:"political_division" db:"political_division"`
	StateHouseRep2012       string `json:"state_house_rep_2012" db:"state_house_rep_2012"`
	StateSenate2012         string `json:"state_senate_2012" db:"state_senate_2012"`
	USCongressional2012     string `json:"us_congressional_2012" db:"us_congressional_2012"`
	PlanningDistrict        string `json:"planning_district" db:"planning_district"`
	ElementarySchool        string `json:"elementary_school" db:"elementary_school"`
	MiddleSchool            string `json:"middle_school" db:"middle_school"`
	HighSchool              string `json:"high_school" db:"high_school"`
	Zoning                  string `json:"zoning" db:"zoning"`
	ZoningRCO               string `json:"zoning_rco" db:"zoning_rco"`
	CommercialCorridor      string `json:"commercial_corridor" db:"commercial_corridor"`
	PoliceDivision          string `json:"police_division" db:"police_division"`
	PoliceDistrict          string `json:"police_district" db:"police_district"`
	PoliceServiceArea       string `json:"police_service_area" db:"police_service_area"`
	RubbishRecycleDay       string `json:"rubbish_recycle_day" db:"rubbish_recycle_day"`
	RecyclingDiversionRate  string `json:"recycling_diversion_rate" db:"recycling_diversion_rate"`
	LeafCollectionArea      string `json:"leaf_collection_area" db:"leaf_collection_area"`
	SanitationArea          string `json:"sanitation_area" db:"sanitation_area"`
	SanitationDistrict      string `json:"sanitation_district" db:"sanitation_district"`
	HistoricStreet          string `json:"historic_street" db:"historic_street"`
	HighwayDistrict         string `json:"highway_district" db:"highway_district"`
	HighwaySection          string `json:"highway_section" db:"highway_section"`
	HighwaySubsection       string `json:"highway_subsection" db:"highway_subsection"`
	TrafficDistrict         string `json:"traffic_district" db:"traffic_district"`
	TrafficPMDistrict       string `json:"traffic_pm_district" db:"traffic_pm_district"`
	StreetLightRoute        string `json:"street_light_route" db:"street_light_route"`
	PWDMaintDistrict        string `json:"pwd_maint_district" db:"pwd_maint_district"`
	PWDPressureDistrict     string `json:"pwd_pressure_district" db:"pwd_pressure_district"`
	PWDTreatmentPlant       string `json:"pwd_treatment_plant" db:"pwd_treatment_plant"`
	PWDWaterPlate           string `json:"pwd_water_plate" db:"pwd_water_plate"`
	PWDCenterCityDistrict   string `json:"pwd_center_city_district" db:"pwd_center_city_district"`
	MajorPhilaWatershed     string `json:"major_phila_watershed" db:"major_phila_watershed"`
	NeighborhoodAdvisoryCom string `json:"neighborhood_advisory_committee" db:"neighborhood_advisory_committee"`
}

// Get returns the value for a layer ("" if not covered or unknown)
func (s *ServiceAreas) Get(layer ServiceAreaLayer) string {
	if f := s.field(layer); f != nil {
		return *f
	}
	return ""
}

// Set stores the value for a layer
func (s *ServiceAreas) Set(layer ServiceAreaLayer, value string) error {
	f := s.field(layer)
	if f == nil {
		return fmt.Errorf("unknown service area layer %q", layer)
	}
	*f = value
	return nil
}

// Covered returns the number of layers with a value
func (s *ServiceAreas) Covered() int {
	n := 0
	for _, l := range ServiceAreaLayers {
		if s.Get(l) != "" {
			n++
		}
	}
	return n
}

func (s *ServiceAreas) field(layer ServiceAreaLayer) *string {
	switch layer {
	case LayerCenterCityDistrict:
		return &s.CenterCityDistrict
	case LayerCUAZone:
		return &s.CUAZone
	case LayerLIDistrict:
		return &s.LIDistrict
	case LayerPhillyRisingArea:
		return &s.PhillyRisingArea
	case LayerCensusTract2010:
		return &s.CensusTract2010
	case LayerCensusBlockGroup2010:
		return &s.CensusBlockGroup2010
	case LayerCensusBlock2010:
		return &s.CensusBlock2010
	case LayerCouncilDistrict2016:
		return &s.CouncilDistrict2016
	case LayerPoliticalWard:
		return &s.PoliticalWard
	case LayerPoliticalDivision:
		return &s.PoliticalDivision
	case LayerStateHouseRep2012:
		return &s.StateHouseRep2012
	case LayerStateSenate2012:
		return &s.StateSenate2012
	case LayerUSCongressional2012:
		return &s.USCongressional2012
	case LayerPlanningDistrict:
		return &s.PlanningDistrict
	case LayerElementarySchool:
		return &s.ElementarySchool
	case LayerMiddleSchool:
		return &s.MiddleSchool
	case LayerHighSchool:
		return &s.HighSchool
	case LayerZoning:
		return &s.Zoning
	case LayerZoningRCO:
		return &s.ZoningRCO
	case LayerCommercialCorridor:
		return &s.CommercialCorridor
	case LayerPoliceDivision:
		return &s.PoliceDivision
	case LayerPoliceDistrict:
		return &s.PoliceDistrict
	case LayerPoliceServiceArea:
		return &s.PoliceServiceArea
	case LayerRubbishRecycleDay:
		return &s.RubbishRecycleDay
	case LayerRecyclingDiversionRate:
		return &s.RecyclingDiversionRate
	case LayerLeafCollectionArea:
		return &s.LeafCollectionArea
	case LayerSanitationArea:
		return &s.SanitationArea
	case LayerSanitationDistrict:
		return &s.SanitationDistrict
	case LayerHistoricStreet:
		return &s.HistoricStreet
	case LayerHighwayDistrict:
		return &s.HighwayDistrict
	case LayerHighwaySection:
		return &s.HighwaySection
	case LayerHighwaySubsection:
		return &s.HighwaySubsection
	case LayerTrafficDistrict:
		return &s.TrafficDistrict
	case LayerTrafficPMDistrict:
		return &s.TrafficPMDistrict
	case LayerStreetLightRoute:
		return &s.StreetLightRoute
	case LayerPWDMaintDistrict:
		return &s.PWDMaintDistrict
	case LayerPWDPressureDistrict:
		return &s.PWDPressureDistrict
	case LayerPWDTreatmentPlant:
		return &s.PWDTreatmentPlant
	case LayerPWDWaterPlate:
		return &s.PWDWaterPlate
	case LayerPWDCenterCityDistrict:
		return &s.PWDCenterCityDistrict
	case LayerMajorPhilaWatershed:
		return &s.MajorPhilaWatershed
	case LayerNeighborhoodAdvisoryCom:
		return &s.NeighborhoodAdvisoryCom
	}
	return nil
}

// ServiceAreaPolygon - one polygon of a layer, geometry in state plane feet
type ServiceAreaPolygon struct {
	Layer    ServiceAreaLayer
	ID       string
	Value    string
	Geometry *geom.MultiPolygon
}
