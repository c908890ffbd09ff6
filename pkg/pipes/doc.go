// Package pipes holds the pipes the personality classifier system is made of: loaders, preparators,
// the train/test splitter, the evaluator, the predictor, model persistence and result recorders.
//
// Every pipe is exposed as a pipeline.Factory constructor so it can be listed in a pipeline.Definition.
package pipes
