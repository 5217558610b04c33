package registry

// Series families used by the HealthKit table.
const (
	FamilyActivity         = "Activity"
	FamilyBodyMeasurements = "BodyMeasurements"
	FamilyDiet             = "Diet"
	FamilyEnvironment      = "Environment"
	FamilyVitals           = "Vitals"
)

// Conversion factors from the unit Apple Health writes in a metric export to
// the canonical unit. The record's own unit attribute is never consulted.
const (
	kilo        = 1e3
	mega        = 1e6
	percentMill = 1e5 // fraction (0..1) to thousandths of a percent
	minuteMs    = 60 * 1e3
)

var healthKit = MustNew(map[string]Descriptor{
	// Body measurements.
	"HKQuantityTypeIdentifierBodyMassIndex": {
		Family: FamilyBodyMeasurements, Name: "BodyMassIndex", Unit: "body_mass_index_millis",
		Transform: Scale(mega),
	},
	"HKQuantityTypeIdentifierHeight": { // cm
		Family: FamilyBodyMeasurements, Name: "Height", Unit: "millimeters",
		Transform: Scale(10),
	},
	"HKQuantityTypeIdentifierBodyMass": { // kg
		Family: FamilyBodyMeasurements, Name: "Weight", Unit: "milligrams",
		Transform: Scale(mega),
	},
	"HKQuantityTypeIdentifierLeanBodyMass": { // kg
		Family: FamilyBodyMeasurements, Name: "LeanBodyMass", Unit: "milligrams",
		Transform: Scale(mega),
	},
	"HKQuantityTypeIdentifierBodyFatPercentage": { // fraction
		Family: FamilyBodyMeasurements, Name: "BodyFatPercentage", Unit: "percentage_millis",
		Transform: Scale(percentMill),
	},
	"HKQuantityTypeIdentifierWaistCircumference": { // cm
		Family: FamilyBodyMeasurements, Name: "WaistCircumference", Unit: "millimeters",
		Transform: Scale(10),
	},

	// Vitals.
	"HKQuantityTypeIdentifierHeartRate": { // count/min
		Family: FamilyVitals, Name: "HeartRate", Unit: "beats_per_minute",
	},
	"HKQuantityTypeIdentifierRestingHeartRate": {
		Family: FamilyVitals, Name: "RestingHeartRate", Unit: "beats_per_minute",
	},
	"HKQuantityTypeIdentifierWalkingHeartRateAverage": {
		Family: FamilyVitals, Name: "WalkingHeartRate", Unit: "beats_per_minute",
	},
	"HKQuantityTypeIdentifierHeartRateVariabilitySDNN": { // ms
		Family: FamilyVitals, Name: "HeartRateVariability", Unit: "milliseconds",
	},
	"HKQuantityTypeIdentifierRespiratoryRate": { // count/min
		Family: FamilyVitals, Name: "RespiratoryRate", Unit: "breaths_per_minute_millis",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierOxygenSaturation": { // fraction
		Family: FamilyVitals, Name: "OxygenSaturation", Unit: "percentage_millis",
		Transform: Scale(percentMill),
	},
	"HKQuantityTypeIdentifierBloodPressureSystolic": { // mmHg
		Family: FamilyVitals, Name: "BloodPressureSystolic", Unit: "millimeters_of_mercury",
	},
	"HKQuantityTypeIdentifierBloodPressureDiastolic": {
		Family: FamilyVitals, Name: "BloodPressureDiastolic", Unit: "millimeters_of_mercury",
	},
	"HKQuantityTypeIdentifierVO2Max": { // mL/min·kg
		Family: FamilyVitals, Name: "VO2Max", Unit: "vo2_max_millis",
		Transform: Scale(kilo),
	},

	// Activity.
	"HKQuantityTypeIdentifierStepCount": {
		Family: FamilyActivity, Name: "StepCount", Unit: "count", Integer: true,
	},
	"HKQuantityTypeIdentifierFlightsClimbed": {
		Family: FamilyActivity, Name: "FlightsClimbed", Unit: "count", Integer: true,
	},
	"HKQuantityTypeIdentifierSwimmingStrokeCount": {
		Family: FamilyActivity, Name: "SwimmingStrokes", Unit: "count", Integer: true,
	},
	"HKQuantityTypeIdentifierDistanceWalkingRunning": { // km
		Family: FamilyActivity, Name: "WalkingRunningDistance", Unit: "millimeters",
		Transform: Scale(mega),
	},
	"HKQuantityTypeIdentifierDistanceCycling": { // km
		Family: FamilyActivity, Name: "CyclingDistance", Unit: "millimeters",
		Transform: Scale(mega),
	},
	"HKQuantityTypeIdentifierDistanceSwimming": { // m
		Family: FamilyActivity, Name: "SwimmingDistance", Unit: "millimeters",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierActiveEnergyBurned": { // kcal
		Family: FamilyActivity, Name: "ActiveEnergyBurned", Unit: "calories",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierBasalEnergyBurned": { // kcal
		Family: FamilyActivity, Name: "RestingEnergyBurned", Unit: "calories",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierAppleExerciseTime": { // min
		Family: FamilyActivity, Name: "ExerciseTime", Unit: "milliseconds",
		Transform: Scale(minuteMs),
	},
	"HKQuantityTypeIdentifierAppleStandTime": { // min
		Family: FamilyActivity, Name: "StandTime", Unit: "milliseconds",
		Transform: Scale(minuteMs),
	},

	// Diet.
	"HKQuantityTypeIdentifierDietaryWater": { // mL
		Family: FamilyDiet, Name: "WaterConsumed", Unit: "milliliters",
	},
	"HKQuantityTypeIdentifierDietaryCaffeine": { // mg
		Family: FamilyDiet, Name: "CaffeineConsumed", Unit: "milligrams",
	},
	"HKQuantityTypeIdentifierDietaryEnergyConsumed": { // kcal
		Family: FamilyDiet, Name: "CaloriesConsumed", Unit: "calories",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryFatTotal": { // g
		Family: FamilyDiet, Name: "TotalFatConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryFatSaturated": { // g
		Family: FamilyDiet, Name: "SaturatedFatConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryFatMonounsaturated": { // g
		Family: FamilyDiet, Name: "MonounsaturatedFatConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryFatPolyunsaturated": { // g
		Family: FamilyDiet, Name: "PolyunsaturatedFatConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryCarbohydrates": { // g
		Family: FamilyDiet, Name: "CarbohydratesConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryFiber": { // g
		Family: FamilyDiet, Name: "FiberConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietarySugar": { // g
		Family: FamilyDiet, Name: "SugarConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietaryProtein": { // g
		Family: FamilyDiet, Name: "ProteinConsumed", Unit: "milligrams",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierDietarySodium": { // mg
		Family: FamilyDiet, Name: "SodiumConsumed", Unit: "milligrams",
	},
	"HKQuantityTypeIdentifierDietaryCholesterol": { // mg
		Family: FamilyDiet, Name: "CholesterolConsumed", Unit: "milligrams",
	},
	"HKQuantityTypeIdentifierDietaryPotassium": { // mg
		Family: FamilyDiet, Name: "PotassiumConsumed", Unit: "milligrams",
	},
	"HKQuantityTypeIdentifierDietaryCalcium": { // mg
		Family: FamilyDiet, Name: "CalciumConsumed", Unit: "milligrams",
	},
	"HKQuantityTypeIdentifierDietaryIron": { // mg
		Family: FamilyDiet, Name: "IronConsumed", Unit: "milligrams",
	},

	// Environment.
	"HKQuantityTypeIdentifierHeadphoneAudioExposure": { // dBASPL
		Family: FamilyEnvironment, Name: "HeadphoneAudioExposure", Unit: "decibels_millis",
		Transform: Scale(kilo),
	},
	"HKQuantityTypeIdentifierEnvironmentalAudioExposure": { // dBASPL
		Family: FamilyEnvironment, Name: "EnvironmentalAudioExposure", Unit: "decibels_millis",
		Transform: Scale(kilo),
	},
})

// HealthKit returns the registry for Apple Health quantity records.
func HealthKit() *Registry {
	return healthKit
}
