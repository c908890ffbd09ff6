// Package learn implements the text classifier trained by the modelling stage.
//
// Records are turned into sparse Features by a FeatureUnion of two branches: the TF-IDF weights of the
// joined posts, and the min-max scaled mean number of words per post. A LogisticRegression separates the
// two labels of a persona.LabelSet on top of them. Classifier ties everything together and satisfies
// pipeline.Estimator.
package learn
