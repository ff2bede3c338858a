// Package indextest provides a small, hand-checked index for tests.
package indextest

import (
	"strings"

	"rdatasets/internal/index"
)

const base = "https://vincentarelbundock.github.io/Rdatasets"

// CSV is a trimmed copy of the published index. Titanic exercises quoting;
// Placeholder exercises empty and NA counts.
const CSV = `"Package","Item","Title","Rows","Cols","n_binary","n_character","n_factor","n_logical","n_numeric","CSV","Doc"
"datasets","AirPassengers","Monthly Airline Passenger Numbers 1949-1960",144,2,0,0,0,0,2,"` + base + `/csv/datasets/AirPassengers.csv","` + base + `/doc/datasets/AirPassengers.html"
"datasets","iris","Edgar Anderson's Iris Data",150,5,0,0,1,0,4,"` + base + `/csv/datasets/iris.csv","` + base + `/doc/datasets/iris.html"
"datasets","mtcars","Motor Trend Car Road Tests",32,11,2,0,0,0,11,"` + base + `/csv/datasets/mtcars.csv","` + base + `/doc/datasets/mtcars.html"
"datasets","women","Average Heights and Weights for American Women",15,2,0,0,0,0,2,"` + base + `/csv/datasets/women.csv","` + base + `/doc/datasets/women.html"
"MASS","Aids2","Australian AIDS Survival Data",2843,7,1,0,3,0,4,"` + base + `/csv/MASS/Aids2.csv","` + base + `/doc/MASS/Aids2.html"
"MASS","biopsy","Biopsy Data on Breast Cancer Patients",699,11,0,1,1,0,9,"` + base + `/csv/MASS/biopsy.csv","` + base + `/doc/MASS/biopsy.html"
"ggplot2","diamonds","Prices of over 50,000 round cut diamonds",53940,10,0,0,3,0,7,"` + base + `/csv/ggplot2/diamonds.csv","` + base + `/doc/ggplot2/diamonds.html"
"ggplot2","msleep","An updated and expanded version of the mammals sleep dataset",83,11,0,5,0,0,6,"` + base + `/csv/ggplot2/msleep.csv","` + base + `/doc/ggplot2/msleep.html"
"palmerpenguins","penguins","Size measurements for adult foraging penguins near Palmer Station, Antarctica",344,8,0,0,3,0,5,"` + base + `/csv/palmerpenguins/penguins.csv","` + base + `/doc/palmerpenguins/penguins.html"
"boot","channing","Channing House Data",462,5,1,0,1,0,4,"` + base + `/csv/boot/channing.csv","` + base + `/doc/boot/channing.html"
"Stat2Data","Titanic","Passengers on the Titanic, 1912",1313,6,2,1,1,0,4,"` + base + `/csv/Stat2Data/Titanic.csv","` + base + `/doc/Stat2Data/Titanic.html"
"AER","Affairs","Fair's Extramarital Affairs Data",601,9,0,0,2,1,6,"` + base + `/csv/AER/Affairs.csv","` + base + `/doc/AER/Affairs.html"
"carData","Chile","Voting Intentions in the 1988 Chilean Plebiscite",2700,8,0,0,4,0,4,"` + base + `/csv/carData/Chile.csv","` + base + `/doc/carData/Chile.html"
"HistData","Placeholder","Placeholder with missing counts",0,0,,NA,NA,,NA,"` + base + `/csv/HistData/Placeholder.csv","` + base + `/doc/HistData/Placeholder.html"
`

// Len is the number of rows in CSV.
const Len = 14

// Fixture parses CSV and panics on failure.
func Fixture() *index.Index {
	idx, err := index.Parse(strings.NewReader(CSV))
	if err != nil {
		panic(err)
	}
	return idx
}

// Names returns the <package>_<item> of every row, in order.
func Names(idx *index.Index) []string {
	out := make([]string, idx.Len())
	for i := range out {
		out[i] = idx.Row(i).Name()
	}
	return out
}
