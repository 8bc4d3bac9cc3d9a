/*
 * v3_test.go
 *
 * Copyright 2013 Raul Mera <rmera@zinc>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 *
 */

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("NewMatrix accepted a slice not divisible by 3")
	}
	A, err := NewMatrix([]float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Error("changes in a VecView are not reflected in the original matrix")
	}
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	B := Zeros(3)
	cind := []int{1, 3, 5}
	err = B.SomeVecsSafe(A, cind)
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range cind {
		if B.At(i, 0) != A.At(v, 0) {
			Te.Errorf("vector %d: got %v, want %v", i, B.At(i, 0), A.At(v, 0))
		}
	}
	C := Zeros(2)
	if err = C.SomeVecsSafe(A, cind); err == nil {
		Te.Error("SomeVecsSafe did not report a shape mismatch")
	}
	D := Zeros(1)
	if err = D.SomeVecsSafe(A, []int{7}); err == nil {
		Te.Error("SomeVecsSafe did not report an out of range index")
	}
}

func TestDistance(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 3, 4, 0})
	B, _ := NewMatrix([]float64{1, 1, 1})
	if d := A.Distance(0, A, 1); math.Abs(d-5) > 1e-12 {
		Te.Errorf("expected 5, got %v", d)
	}
	if d := A.Distance(0, B, 0); math.Abs(d-math.Sqrt(3)) > 1e-12 {
		Te.Errorf("expected sqrt(3), got %v", d)
	}
}
