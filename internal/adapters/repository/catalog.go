package repository

import "github.com/okian/simumatch/internal/domain/model"

// DefaultCatalog returns the built-in event profiles: four road races and
// two triathlon distances. Weights describe how much each event rewards
// endurance and speed; ExpectedWeeklyKm is the training volume it assumes.
// Target paces are seed values for the learned strategy only.
func DefaultCatalog() []model.EventProfile {
	return []model.EventProfile{
		{
			EventID: "5k", Name: "5K", DistanceKm: 5, TargetPaceMinPerKm: model.Float(5.0),
			EnduranceWeight: 0.2, SpeedWeight: 0.9, ExpectedWeeklyKm: 10,
			Category: "run", Description: "Short road race rewarding raw speed.",
		},
		{
			EventID: "10k", Name: "10K", DistanceKm: 10, TargetPaceMinPerKm: model.Float(5.25),
			EnduranceWeight: 0.35, SpeedWeight: 0.8, ExpectedWeeklyKm: 20,
			Category: "run", Description: "Road race balancing speed with aerobic base.",
		},
		{
			EventID: "half", Name: "Half Marathon", DistanceKm: 21.0975, TargetPaceMinPerKm: model.Float(5.5),
			ElevationGainM: 120, EnduranceWeight: 0.7, SpeedWeight: 0.6, ExpectedWeeklyKm: 30,
			Category: "run", Description: "Endurance-leaning road race.",
		},
		{
			EventID: "marathon", Name: "Marathon", DistanceKm: 42.195, TargetPaceMinPerKm: model.Float(6.0),
			ElevationGainM: 250, EnduranceWeight: 0.95, SpeedWeight: 0.4, ExpectedWeeklyKm: 50,
			Category: "run", Description: "Long road race dominated by endurance.",
		},
		{
			EventID: "tri-sprint", Name: "Triathlon Sprint", DistanceKm: 25.75, TargetPaceMinPerKm: model.Float(5.5),
			EnduranceWeight: 0.4, SpeedWeight: 0.6, ExpectedWeeklyKm: 10,
			Category: "triathlon", Description: "750 m swim, 20 km bike, 5 km run.",
		},
		{
			EventID: "tri-olympic", Name: "Triathlon Olympic", DistanceKm: 51.5, TargetPaceMinPerKm: model.Float(5.75),
			ElevationGainM: 150, EnduranceWeight: 0.7, SpeedWeight: 0.6, ExpectedWeeklyKm: 25,
			Category: "triathlon", Description: "1.5 km swim, 40 km bike, 10 km run.",
		},
	}
}
