// Command ikpls fits and applies IKPLS regression models on CSV data.
//
//	ikpls fit --x X.csv --y Y.csv --components 10 --out model.json
//	ikpls predict --model model.json --x Xnew.csv --components 5 --out yhat.csv
//	ikpls evaluate --model model.json --x Xtest.csv --y Ytest.csv --report scores.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
