package kinematics

import (
	"math"

	"go.viam.com/armkin/utils"
)

// NewYouBotModel returns the kinematic model of the KUKA youBot arm, a 5-DoF serial
// manipulator. Distances are millimeters and the tool frame includes the standard
// gripper. In the all-zero configuration the arm is stretched out radially with the
// tool pointing straight down; the TCP sits at (323, 0, -70.6) with orientation
// (pi, 0, 0).
func NewYouBotModel() *Model {
	dhParams := []DHParam{
		{Theta: 0, D: 147, Alpha: math.Pi / 2, R: 33},
		{Theta: 0, D: 0, Alpha: 0, R: 155},
		{Theta: 0, D: 0, Alpha: 0, R: 135},
		{Theta: 0, D: 0, Alpha: math.Pi / 2, R: 0},
		{Theta: 0, D: 217.6, Alpha: 0, R: 0},
	}
	limits := []Limit{
		{Min: -utils.DegToRad(169), Max: utils.DegToRad(169)},
		{Min: -utils.DegToRad(65), Max: utils.DegToRad(90)},
		{Min: -utils.DegToRad(151), Max: utils.DegToRad(146)},
		{Min: -utils.DegToRad(102.5), Max: utils.DegToRad(102.5)},
		{Min: -utils.DegToRad(167.5), Max: utils.DegToRad(167.5)},
	}
	model, err := NewModel("youbot-arm", dhParams, limits)
	if err != nil {
		// the table above is static and well formed
		panic(err)
	}
	return model
}
