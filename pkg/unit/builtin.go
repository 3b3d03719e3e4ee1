package unit

import "github.com/robotalks/linesumo/pkg/drive"

// Builtin is the table used without a table file.
var Builtin = Table{
	Units: []Unit{
		{
			ID:     "00030000-67cdb721-4e453215-30020013",
			Name:   "L20",
			Quirks: drive.Quirks{InvertLeftMotor: true, InvertRightMotor: true, SwapRightEncoder: true},
		},
		{
			ID:   "00050000-4e45b721-4e453215-30020013",
			Name: "L21",
		},
		{
			ID:     "000bffff-4e45ffff-4e452799-10020024",
			Name:   "L4",
			Quirks: drive.Quirks{InvertLeftMotor: true, SwapLeftEncoder: true, SwapRightEncoder: true},
		},
		{
			ID:     "000a0000-67cdb821-4e453215-30020013",
			Name:   "L23",
			Quirks: drive.Quirks{InvertLeftMotor: true, InvertRightMotor: true, SwapRightEncoder: true},
		},
		{
			ID:     "00190000-67cdb911-4e453215-30020013",
			Name:   "L11",
			Quirks: drive.Quirks{SwapRightEncoder: true},
		},
		{
			ID:     "00380000-67cdb541-4e453215-30020013",
			Name:   "L5",
			Quirks: drive.Quirks{InvertRightMotor: true, SwapRightEncoder: true},
		},
		{
			ID:     "0033ffff-ffffffff-4e452799-1002000a",
			Name:   "L3",
			Quirks: drive.Quirks{InvertLeftMotor: true, SwapLeftEncoder: true, SwapRightEncoder: true},
		},
		{
			ID:     "0019ffff-ffffffff-4e452799-10020025",
			Name:   "L1",
			Quirks: drive.Quirks{InvertLeftMotor: true, SwapLeftEncoder: true, SwapRightEncoder: true},
		},
	},
}
